package recommend

import "strings"

// Option maps a stable id to what is shown and what is sent to the backend.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// DefaultAvailableTime is used when no training time is given, in minutes.
const DefaultAvailableTime = 30

var goals = []Option{
	{ID: "muscle-building", Label: "Muscle building", Value: "筋肥大"},
	{ID: "fat-loss", Label: "Fat loss", Value: "ダイエット"},
	{ID: "health", Label: "Health maintenance", Value: "健康維持"},
	{ID: "performance", Label: "Performance", Value: "パフォーマンス向上"},
}

var bodyParts = []Option{
	{ID: "full-body", Label: "Full body", Value: "全身"},
	{ID: "chest", Label: "Chest", Value: "胸"},
	{ID: "back", Label: "Back", Value: "背中"},
	{ID: "shoulders", Label: "Shoulders", Value: "肩"},
	{ID: "arms", Label: "Arms", Value: "腕"},
	{ID: "legs", Label: "Legs", Value: "脚"},
	{ID: "abs", Label: "Abs", Value: "腹筋"},
}

var levels = []Option{
	{ID: "beginner", Label: "Beginner", Value: "初心者"},
	{ID: "intermediate", Label: "Intermediate", Value: "中級者"},
	{ID: "advanced", Label: "Advanced", Value: "上級者"},
}

// Goals lists the training goals.
func Goals() []Option { return clone(goals) }

// BodyParts lists the target body parts.
func BodyParts() []Option { return clone(bodyParts) }

// Levels lists the experience levels.
func Levels() []Option { return clone(levels) }

// GoalValue returns the backend value for a goal id. Unknown input is
// returned unchanged.
func GoalValue(id string) string { return lookup(goals, id) }

// LevelValue returns the backend value for an experience level id.
func LevelValue(id string) string { return lookup(levels, id) }

// PartValues maps body part ids to backend values, dropping blanks.
func PartValues(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		out = append(out, lookup(bodyParts, id))
	}
	return out
}

func lookup(opts []Option, id string) string {
	id = strings.TrimSpace(id)
	for _, o := range opts {
		if o.ID == id {
			return o.Value
		}
	}
	return id
}

func clone(opts []Option) []Option {
	out := make([]Option, len(opts))
	copy(out, opts)
	return out
}
