package entity

// ChannelAccount identifies a bot or user on the channel side.
type ChannelAccount struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ConversationAccount identifies the conversation an activity belongs to.
type ConversationAccount struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Activity is the message payload exchanged with the conversation service.
// Incoming activities are never mutated; replies are derived copies.
type Activity struct {
	Type         string               `json:"type"`
	ID           string               `json:"id"`
	Timestamp    string               `json:"timestamp,omitempty"`
	ServiceURL   string               `json:"serviceUrl,omitempty"`
	ChannelID    string               `json:"channelId,omitempty"`
	From         *ChannelAccount      `json:"from,omitempty"`
	Conversation *ConversationAccount `json:"conversation,omitempty"`
	Recipient    *ChannelAccount      `json:"recipient,omitempty"`
	Text         string               `json:"text"`
	ReplyToID    string               `json:"replyToId,omitempty"`
}

// Reply builds the outgoing activity for this one: from and recipient are
// swapped, the conversation is kept and replyToId points back at the
// original activity.
func (a *Activity) Reply(text string) *Activity {
	return &Activity{
		Type:         ActivityTypeMessage,
		From:         a.Recipient,
		Conversation: a.Conversation,
		Recipient:    a.From,
		Text:         text,
		ReplyToID:    a.ID,
	}
}

const ActivityTypeMessage = "message"
