package models

import "time"

type Member struct {
	ID           int64
	FirstName    string
	LastName     string
	Username     string
	Email        string
	IsVerified   bool
	ResetFlagSet bool
}

type Credential struct {
	MemberID   int64
	SaltedHash string
	Salt       string
}

// Contact is one directed edge. A friendship is complete only when both
// directions exist and are verified.
type Contact struct {
	MemberA  int64
	MemberB  int64
	Verified bool
}

type Chat struct {
	ID      int64
	Name    string
	OwnerID int64
	IsGroup bool
}

type ChatMember struct {
	ChatID   int64
	MemberID int64
}

type Message struct {
	ID        int64
	ChatID    int64
	MemberID  int64
	Text      string
	Timestamp time.Time
}

type Location struct {
	MemberID int64  `json:"-"`
	Nickname string `json:"nickname"`
	Lat      string `json:"lat"`
	Lon      string `json:"lon"`
}

// MemberSummary is the projection returned by contact and chat listings.
type MemberSummary struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// ChatSummary is one row of a member's chat list.
type ChatSummary struct {
	Name       string `json:"name"`
	ChatID     int64  `json:"chatid"`
	OwnerEmail string `json:"owner"`
}

// EmailMessage is the payload published to the mail queue.
type EmailMessage struct {
	Email   string `json:"to"`
	Link    string `json:"link"`
	Subject string `json:"subject"`
}
