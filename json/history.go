// Package json persists the chat history as a single JSON document.
//
// The document is an array of sessions, newest first, in the same shape the
// browser client kept in local storage:
//
//	[{"id":1700000000000,"title":"hello...","timestamp":"...","messages":[
//	  {"role":"user","text":"hello","img":null}]}]
package json

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/xanadium"
)

type sessionDTO struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	Timestamp string       `json:"timestamp"`
	Messages  []messageDTO `json:"messages"`
}

type messageDTO struct {
	Role  string  `json:"role"`
	Text  string  `json:"text"`
	Image *string `json:"img"`
}

// MarshalHistory serializes a History to its JSON document.
func MarshalHistory(h xanadium.History) ([]byte, error) {
	dtos := make([]sessionDTO, len(h))
	for i, s := range h {
		dtos[i] = sessionDTO{
			ID:        s.ID,
			Title:     s.Title,
			Timestamp: s.Timestamp,
			Messages:  make([]messageDTO, len(s.Messages)),
		}
		for j, m := range s.Messages {
			dto := messageDTO{Role: string(m.Role), Text: m.Text}
			if m.Image != "" {
				img := m.Image
				dto.Image = &img
			}
			dtos[i].Messages[j] = dto
		}
	}
	return json.Marshal(dtos)
}

// UnmarshalHistory deserializes a History. When the document repeats an
// id, the first occurrence wins. Message roles are taken as stored, known
// or not.
func UnmarshalHistory(data []byte) (xanadium.History, error) {
	var dtos []sessionDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("unmarshal history: %w", err)
	}
	h := make(xanadium.History, 0, len(dtos))
	seen := make(map[int64]bool, len(dtos))
	for _, dto := range dtos {
		if seen[dto.ID] {
			continue
		}
		seen[dto.ID] = true
		msgs := make([]xanadium.Message, len(dto.Messages))
		for j, m := range dto.Messages {
			msgs[j] = unmarshalMessage(m)
		}
		h = append(h, xanadium.Session{
			ID:        dto.ID,
			Title:     dto.Title,
			Timestamp: dto.Timestamp,
			Messages:  msgs,
		})
	}
	return h, nil
}

// unmarshalMessage keeps roles it does not know so that a rewrite of the
// document does not lose them.
func unmarshalMessage(dto messageDTO) xanadium.Message {
	msg := xanadium.Message{Role: xanadium.Role(dto.Role), Text: dto.Text}
	if dto.Image != nil {
		msg.Image = *dto.Image
	}
	return msg
}
