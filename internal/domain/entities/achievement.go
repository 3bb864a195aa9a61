package entities

// Comparison is the closed operator set of achievement rules. Any other
// value never matches.
type Comparison string

const (
	CompareEqual          Comparison = "eq"
	CompareGreaterOrEqual Comparison = "gte"
	CompareLessOrEqual    Comparison = "lte"
)

// Trigger events achievements and quests react to.
const (
	EventLogin         = "login"
	EventQuizCompleted = "quiz_completed"
	EventMasteryCheck  = "mastery_check"
	EventItemPurchased = "item_purchased"
)

// Stat names resolvable by the achievement evaluation context. The
// context is a closed enumeration: rules referencing any other name
// simply never fire.
const (
	StatXP            = "xp"
	StatDiamonds      = "diamonds"
	StatLevel         = "level"
	StatInventorySize = "inventorySize"
	StatTotalQuizzes  = "totalQuizzes"
	StatQariCount     = "qariCount"
	StatIsPerfect     = "isPerfect"
	StatPageNumber    = "pageNumber"
)

// AchievementRule is one declarative, immutable trigger rule: when
// TriggerEvent fires, read TargetStat from the evaluation context and
// compare it against TargetValue.
type AchievementRule struct {
	ID             int64
	Name           string
	TriggerEvent   string
	TargetStat     string
	Comparison     Comparison
	TargetValue    float64
	XPReward       int
	DiamondsReward int
}
