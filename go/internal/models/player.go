package models

// Player represents a registered participant on an account's roster
type Player struct {
	ID     string `json:"id" bson:"id"`
	Name   string `json:"name" bson:"name"`
	Avatar string `json:"avatar,omitempty" bson:"avatar,omitempty"` // emoji or data URL
}
