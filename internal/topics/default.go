package topics

// DefaultPhrases contains the built-in restricted topic phrases.
// These are the content boundaries enforced for every non-authorized user.
var DefaultPhrases = []string{
	"explicit content",
	"intimate relationships",
	"personal information",
	"self-replication",
	"unauthorized code",
	"bypass security",
}
