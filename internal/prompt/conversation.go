package prompt

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn of the dialogue sent to the generation backend.
// Order of messages is semantically significant.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is an ordered dialogue plus a hint naming the operation that
// produced it. The hint carries no meaning for real backends; the offline
// fallback generator keys its canned responses on it.
type Conversation struct {
	Hint     string
	Messages []Message
}

// Operation hints understood by the offline fallback generator.
const (
	HintCoverLetter = "cover-letter"
	HintShorten     = "shorten"
	HintExtend      = "extend"
	HintRefine      = "refine"
	HintQuestion    = "question"
	HintExplanation = "explanation"
	HintParseResume = "parse-resume"
)
