package model

// Identity holds the verified claims of an identity-provider token.
// Subject is the stable user identifier; the remaining fields are
// optional claims used to seed the user profile.
type Identity struct {
	Subject   string
	Email     string
	Name      string
	AvatarURL string
}
