package models

import "encoding/json"

// EntityTypeNumber is the platform tag for a recognized number.
const EntityTypeNumber = "YANDEX.NUMBER"

// Entity is a platform-extracted token. Value is kept raw because its shape depends on Type.
type Entity struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// Number decodes a numeric entity value.
func (e Entity) Number() (float64, bool) {
	if e.Type != EntityTypeNumber {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(e.Value, &v); err != nil {
		return 0, false
	}
	return v, true
}

// Turn is one conversational step as seen by the dialog logic.
type Turn struct {
	NewSession bool
	Utterance  string
	Entities   []Entity
}

// WebhookRequest is the inbound voice-assistant envelope.
type WebhookRequest struct {
	Version string          `json:"version" binding:"required"`
	Session json.RawMessage `json:"session" binding:"required"`
	Request struct {
		Command           string `json:"command"`
		OriginalUtterance string `json:"original_utterance"`
		NLU               struct {
			Entities []Entity `json:"entities"`
		} `json:"nlu"`
	} `json:"request"`
}

// SessionNew extracts the "new" flag from the opaque session object.
func (r WebhookRequest) SessionNew() bool {
	var s struct {
		New bool `json:"new"`
	}
	_ = json.Unmarshal(r.Session, &s)
	return s.New
}

// Turn converts the envelope to a Turn.
func (r WebhookRequest) Turn() Turn {
	return Turn{
		NewSession: r.SessionNew(),
		Utterance:  r.Request.OriginalUtterance,
		Entities:   r.Request.NLU.Entities,
	}
}

// WebhookResponse echoes version and session and carries the reply text.
type WebhookResponse struct {
	Version  string          `json:"version"`
	Session  json.RawMessage `json:"session"`
	Response ResponseBody    `json:"response"`
}

type ResponseBody struct {
	Text       string `json:"text"`
	EndSession bool   `json:"end_session"`
}
