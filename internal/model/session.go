package model

import "time"

// HistoryDisplayLimit is how many history entries the sidebar shows
const HistoryDisplayLimit = 5

// Settings are the per-session scoring API settings, editable at runtime
type Settings struct {
	APIURL   string `json:"apiUrl"`
	APIToken string `json:"apiToken,omitempty"`
}

// SettingsView is the outward form of Settings; the token is never echoed
type SettingsView struct {
	APIURL   string `json:"apiUrl"`
	TokenSet bool   `json:"tokenSet"`
}

// View hides the token
func (s Settings) View() SettingsView {
	return SettingsView{APIURL: s.APIURL, TokenSet: s.APIToken != ""}
}

// Session is the per-operator state threaded through evaluator and dashboard actions
type Session struct {
	ID         string                   `json:"id"`
	OperatorID string                   `json:"operatorId"`
	CreatedAt  time.Time                `json:"createdAt"`
	Settings   Settings                 `json:"settings"`
	History    []HistoryEntry           `json:"history"`
	Expanded   map[string][]DetailGroup `json:"expanded,omitempty"` // record id -> open groups
}

// HistoryItem is a history entry with its 1-based position in the session
type HistoryItem struct {
	Ordinal int `json:"ordinal"`
	HistoryEntry
}

// HistoryView is the sidebar rendering of a session history
type HistoryView struct {
	Total  int           `json:"total"`
	Recent []HistoryItem `json:"recent"`
}

// AppendHistory records a successful evaluation
func (s *Session) AppendHistory(e HistoryEntry) {
	s.History = append(s.History, e)
}

// ClearHistory drops every entry
func (s *Session) ClearHistory() {
	s.History = nil
}

// RecentHistory returns up to n of the latest entries, newest first
func (s *Session) RecentHistory(n int) HistoryView {
	view := HistoryView{Total: len(s.History), Recent: []HistoryItem{}}
	for i := len(s.History) - 1; i >= 0 && len(view.Recent) < n; i-- {
		view.Recent = append(view.Recent, HistoryItem{Ordinal: i + 1, HistoryEntry: s.History[i]})
	}
	return view
}

// IsExpanded reports whether a record's group is open
func (s *Session) IsExpanded(id string, g DetailGroup) bool {
	for _, open := range s.Expanded[id] {
		if open == g {
			return true
		}
	}
	return false
}

// Toggle flips a record's group and returns the new state
func (s *Session) Toggle(id string, g DetailGroup) bool {
	if s.Expanded == nil {
		s.Expanded = make(map[string][]DetailGroup)
	}
	groups := s.Expanded[id]
	for i, open := range groups {
		if open == g {
			groups = append(groups[:i], groups[i+1:]...)
			if len(groups) == 0 {
				delete(s.Expanded, id)
			} else {
				s.Expanded[id] = groups
			}
			return false
		}
	}
	s.Expanded[id] = append(groups, g)
	return true
}
