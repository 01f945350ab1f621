package devserver

import (
	"fmt"
	"strings"

	"github.com/claude/gymlog/internal/models"
)

var partExercises = map[string][]string{
	"全身": {"スクワット", "デッドリフト", "ベンチプレス"},
	"胸":  {"ベンチプレス", "ダンベルフライ", "腕立て伏せ"},
	"背中": {"デッドリフト", "ラットプルダウン", "ベントオーバーロウ"},
	"肩":  {"ショルダープレス", "サイドレイズ"},
	"腕":  {"アームカール", "トライセプスエクステンション"},
	"脚":  {"スクワット", "レッグプレス", "ランジ"},
	"腹筋": {"クランチ", "プランク"},
}

var goalReps = map[string]int{
	"筋肥大":       10,
	"ダイエット":     15,
	"健康維持":      12,
	"パフォーマンス向上": 5,
}

var levelSets = map[string]int{
	"初心者": 3,
	"中級者": 4,
	"上級者": 5,
}

// buildMenu renders a deterministic menu: roughly one exercise per ten
// minutes, drawn from the target parts in order.
func buildMenu(p models.TrainingProfile) string {
	minutes := p.AvailableTime
	if minutes <= 0 {
		minutes = 30
	}
	parts := p.TargetParts
	if len(parts) == 0 {
		parts = []string{"全身"}
	}
	reps, ok := goalReps[p.TrainingGoal]
	if !ok {
		reps = 10
	}
	sets, ok := levelSets[p.ExperienceLevel]
	if !ok {
		sets = 3
	}

	want := max(1, minutes/10)
	seen := map[string]bool{}
	var picks []string
	for round := 0; len(picks) < want; round++ {
		added := false
		for _, part := range parts {
			list := partExercises[part]
			if round >= len(list) || seen[list[round]] {
				continue
			}
			seen[list[round]] = true
			picks = append(picks, list[round])
			added = true
			if len(picks) == want {
				break
			}
		}
		if !added {
			break
		}
	}
	if len(picks) == 0 {
		picks = partExercises["全身"][:1]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "目標: %s / レベル: %s / 時間: %d分\n", p.TrainingGoal, p.ExperienceLevel, minutes)
	fmt.Fprintf(&b, "対象部位: %s\n", strings.Join(parts, "、"))
	for i, name := range picks {
		fmt.Fprintf(&b, "%d. %s %dセット x %d回\n", i+1, name, sets, reps)
	}
	return b.String()
}
