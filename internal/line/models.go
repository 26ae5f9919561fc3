package line

// --- Incoming webhook payload ---
// Reference: https://developers.line.biz/en/reference/messaging-api/#webhook-event-objects

type WebhookPayload struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

type Event struct {
	Type       string        `json:"type"`
	ReplyToken string        `json:"replyToken,omitempty"`
	Timestamp  int64         `json:"timestamp,omitempty"`
	Source     *EventSource  `json:"source,omitempty"`
	Message    *EventMessage `json:"message,omitempty"`
}

type EventSource struct {
	Type    string `json:"type"`
	UserID  string `json:"userId,omitempty"`
	GroupID string `json:"groupId,omitempty"`
}

type EventMessage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// --- Outgoing messages ---
// Reference: https://developers.line.biz/en/reference/messaging-api/#message-objects

// maxQuickReplyItems is the platform cap on quick reply buttons per message.
const maxQuickReplyItems = 13

type Message struct {
	Type       string      `json:"type"`
	Text       string      `json:"text"`
	QuickReply *QuickReply `json:"quickReply,omitempty"`
}

type QuickReply struct {
	Items []QuickReplyItem `json:"items"`
}

type QuickReplyItem struct {
	Type   string `json:"type"`
	Action Action `json:"action"`
}

// Action is either a message action (Text set) or a uri action (URI set).
type Action struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Text  string `json:"text,omitempty"`
	URI   string `json:"uri,omitempty"`
}

// NewText builds a plain text message.
func NewText(text string) Message {
	return Message{Type: "text", Text: text}
}

// NewQuickReply builds a quick reply menu, truncating to the platform cap.
func NewQuickReply(actions ...Action) *QuickReply {
	if len(actions) > maxQuickReplyItems {
		actions = actions[:maxQuickReplyItems]
	}
	items := make([]QuickReplyItem, len(actions))
	for i, a := range actions {
		items[i] = QuickReplyItem{Type: "action", Action: a}
	}
	return &QuickReply{Items: items}
}

// MessageAction builds a quick reply action that sends text back as a message.
func MessageAction(label, text string) Action {
	return Action{Type: "message", Label: label, Text: text}
}

// URIAction builds a quick reply action that opens a link.
func URIAction(label, uri string) Action {
	return Action{Type: "uri", Label: label, URI: uri}
}

// --- Reply / push request bodies ---

type replyRequest struct {
	ReplyToken string    `json:"replyToken"`
	Messages   []Message `json:"messages"`
}

type pushRequest struct {
	To       string    `json:"to"`
	Messages []Message `json:"messages"`
}
