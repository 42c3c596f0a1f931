package models

// Account is a single user record as persisted in the users file, keyed by
// username. The username itself is the map key and is not repeated inside
// the record.
type Account struct {
	Email       string            `json:"email"`
	Phone       string            `json:"phone"`
	Password    string            `json:"password"` // bcrypt hash
	History     []HistoryEntry    `json:"history"`
	Flashcards  []Flashcard       `json:"flashcards"`
	Planner     []PlannerItem     `json:"planner"`
	Settings    map[string]string `json:"settings"`
	DisplayName string            `json:"display_name"`
	AvatarPath  string            `json:"avatar_path"`
	Admin       bool              `json:"admin"`
	FirstLogin  bool              `json:"first_login"`

	// Present only while an email login code is outstanding.
	EmailOTP    string `json:"_email_otp,omitempty"`
	EmailOTPExp int64  `json:"_email_otp_exp,omitempty"`
}

// HistoryEntry is one answered question, newest first in Account.History.
type HistoryEntry struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Timestamp int64  `json:"timestamp"`
}

type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
	ID    int64  `json:"id"`
}

type PlannerItem struct {
	Title string `json:"title"`
	Date  string `json:"date"` // YYYY-MM-DD or ""
	ID    int64  `json:"id"`
}

const DefaultAvatarPath = "static/images/default_avatar.png"

// NewAccount returns an account with all collections initialized, the way
// signup and the OAuth test login create them.
func NewAccount(email, phone, passwordHash, displayName string) *Account {
	return &Account{
		Email:       email,
		Phone:       phone,
		Password:    passwordHash,
		History:     []HistoryEntry{},
		Flashcards:  []Flashcard{},
		Planner:     []PlannerItem{},
		Settings:    map[string]string{},
		DisplayName: displayName,
		AvatarPath:  DefaultAvatarPath,
		FirstLogin:  true,
	}
}

// Clone deep-copies the record so callers can read or stage mutations without
// sharing slices with the store.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	cp := *a
	cp.History = append([]HistoryEntry(nil), a.History...)
	cp.Flashcards = append([]Flashcard(nil), a.Flashcards...)
	cp.Planner = append([]PlannerItem(nil), a.Planner...)
	cp.Settings = make(map[string]string, len(a.Settings))
	for k, v := range a.Settings {
		cp.Settings[k] = v
	}
	return &cp
}
