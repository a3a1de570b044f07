package http

import "github.com/couchcryptid/locale-scout/internal/domain"

// transientErrorText is rendered as a non-persisted assistant turn when a
// completion backend call fails. The transcript itself is never rewritten.
const transientErrorText = "Şu anda cevap veremiyorum, lütfen biraz sonra tekrar dene."

type locationView struct {
	DisplayName string `json:"display_name"`
	Source      string `json:"source"`
	Confidence  string `json:"confidence"`
}

type turnView struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Transient bool   `json:"transient,omitempty"`
}

type sessionPayload struct {
	ID                 string        `json:"id"`
	State              string        `json:"state"`
	Location           *locationView `json:"location,omitempty"`
	Turns              []turnView    `json:"turns"`
	SuggestedQuestions []string      `json:"suggested_questions"`
}

// sessionView renders a session for the API. A non-empty transientError is
// appended as a one-off assistant turn that is not part of the transcript.
func sessionView(sess *domain.Session, transientError string) sessionPayload {
	p := sessionPayload{
		ID:                 sess.ID,
		State:              "awaiting_location",
		Turns:              make([]turnView, 0, len(sess.Turns)+1),
		SuggestedQuestions: sess.Pending,
	}
	if p.SuggestedQuestions == nil {
		p.SuggestedQuestions = []string{}
	}

	if sess.Locked() {
		p.State = "active"
		p.Location = &locationView{
			DisplayName: sess.Location.DisplayName,
			Source:      string(sess.Location.Source),
			Confidence:  string(sess.Location.Confidence),
		}
	}

	for _, turn := range sess.Turns {
		p.Turns = append(p.Turns, turnView{Role: string(turn.Role), Text: turn.Text})
	}
	if transientError != "" {
		p.Turns = append(p.Turns, turnView{Role: string(domain.RoleAssistant), Text: transientError, Transient: true})
	}
	return p
}
