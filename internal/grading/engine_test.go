package grading

import (
	"encoding/json"
	"testing"

	"github.com/Saravana-31/Form-Builder/internal/model"
)

func comprehension(id string, points int, options []string, key string) model.Question {
	return model.Question{ID: id, Type: model.QuestionComprehension, Options: options, CorrectAnswer: model.SingleAnswer(key), Points: points}
}

func cloze(id string, points int, key ...string) model.Question {
	return model.Question{ID: id, Type: model.QuestionCloze, CorrectAnswer: model.BlankAnswers(key...), Points: points}
}

func categorize(id string, points int) model.Question {
	return model.Question{ID: id, Type: model.QuestionCategorize, Categories: []string{"Fruit", "Veg"}, Items: []string{"Apple", "Leek"}, Points: points}
}

func answers(kv ...string) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i]] = json.RawMessage(kv[i+1])
	}
	return out
}

func TestScore_MaxScoreIgnoresAnswers(t *testing.T) {
	qs := []model.Question{
		comprehension("q1", 3, []string{"A", "B"}, "A"),
		cloze("q2", 2, "x"),
		categorize("q3", 5),
		{ID: "q4", Type: "matrix", Points: 4},
	}
	g := NewDefaultGrader()

	for _, a := range []map[string]json.RawMessage{
		nil,
		answers("q1", `"A"`),
		answers("q1", `"B"`, "q2", `["x"]`, "q3", `{"Fruit":["Apple"]}`, "q4", `"anything"`),
	} {
		if got := g.Score(qs, a).MaxScore; got != 14 {
			t.Fatalf("MaxScore = %d, want 14", got)
		}
	}
}

func TestScore_Comprehension(t *testing.T) {
	qs := []model.Question{comprehension("q", 1, []string{"Paris", "Rome"}, "Paris")}
	tests := []struct {
		name   string
		answer string
		want   int
	}{
		{name: "exact", answer: `"Paris"`, want: 1},
		{name: "different case", answer: `"paris"`, want: 0},
		{name: "padded", answer: `" Paris"`, want: 0},
		{name: "other option", answer: `"Rome"`, want: 0},
		{name: "number", answer: `7`, want: 0},
		{name: "list", answer: `["Paris"]`, want: 0},
	}

	g := NewDefaultGrader()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := g.Score(qs, answers("q", tc.answer)).TotalScore; got != tc.want {
				t.Fatalf("TotalScore = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestScore_Cloze(t *testing.T) {
	qs := []model.Question{cloze("q", 2, "Paris", "1990")}
	tests := []struct {
		name   string
		answer string
		want   int
		earned float64
	}{
		{name: "case and whitespace insensitive", answer: `["paris"," 1990 "]`, want: 2, earned: 2},
		{name: "short by one", answer: `["Paris"]`, want: 1, earned: 1},
		{name: "one wrong", answer: `["Lyon","1990"]`, want: 1, earned: 1},
		{name: "non-string blank", answer: `["Paris",1990]`, want: 1, earned: 1},
		{name: "extra blanks ignored", answer: `["Paris","1990","x"]`, want: 2, earned: 2},
		{name: "not a list", answer: `"Paris"`, want: 0, earned: 0},
		{name: "empty list", answer: `[]`, want: 0, earned: 0},
	}

	g := NewDefaultGrader()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := g.Score(qs, answers("q", tc.answer))
			if res.TotalScore != tc.want {
				t.Fatalf("TotalScore = %d, want %d", res.TotalScore, tc.want)
			}
			if res.Questions[0].Earned != tc.earned {
				t.Fatalf("Earned = %v, want %v", res.Questions[0].Earned, tc.earned)
			}
		})
	}
}

func TestScore_ClozeHalfPointRounding(t *testing.T) {
	// 1 point, 1 of 2 blanks: 0.5 rounds up like Math.round.
	qs := []model.Question{cloze("q", 1, "a", "b")}
	if got := NewDefaultGrader().Score(qs, answers("q", `["a"]`)).TotalScore; got != 1 {
		t.Fatalf("TotalScore = %d, want 1", got)
	}

	// 1 point, 1 of 3 blanks: 0.33 rounds down.
	qs = []model.Question{cloze("q", 1, "a", "b", "c")}
	if got := NewDefaultGrader().Score(qs, answers("q", `["a"]`)).TotalScore; got != 0 {
		t.Fatalf("TotalScore = %d, want 0", got)
	}
}

func TestScore_ClozeEmptyKeyScoresZero(t *testing.T) {
	qs := []model.Question{cloze("q", 3)}
	res := NewDefaultGrader().Score(qs, answers("q", `["anything"]`))
	if res.TotalScore != 0 || res.MaxScore != 3 {
		t.Fatalf("got %+v", res)
	}
}

func TestScore_Categorize(t *testing.T) {
	qs := []model.Question{categorize("q", 4)}
	tests := []struct {
		name   string
		answer string
		want   int
	}{
		{name: "no placements", answer: `{"Fruit":[],"Veg":[]}`, want: 0},
		{name: "empty mapping", answer: `{}`, want: 0},
		{name: "one placement", answer: `{"Fruit":[],"Veg":["Apple"]}`, want: 4},
		{name: "wrong shape", answer: `["Apple"]`, want: 0},
		{name: "non-list bucket", answer: `{"Fruit":"Apple"}`, want: 0},
	}

	g := NewDefaultGrader()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := g.Score(qs, answers("q", tc.answer)).TotalScore; got != tc.want {
				t.Fatalf("TotalScore = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestScore_UnansweredValues(t *testing.T) {
	qs := []model.Question{comprehension("q", 1, []string{""}, "")}
	for _, raw := range []string{`null`, `""`, `false`, `0`} {
		res := NewDefaultGrader().Score(qs, answers("q", raw))
		if res.Questions[0].Answered {
			t.Fatalf("%s should count as unanswered", raw)
		}
		if res.TotalScore != 0 {
			t.Fatalf("%s scored %d", raw, res.TotalScore)
		}
	}
}

func TestScore_BreakdownFollowsFormOrder(t *testing.T) {
	qs := []model.Question{categorize("b", 1), comprehension("a", 1, []string{"x"}, "x")}
	res := NewDefaultGrader().Score(qs, answers("a", `"x"`))
	if len(res.Questions) != 2 || res.Questions[0].QuestionID != "b" || res.Questions[1].QuestionID != "a" {
		t.Fatalf("breakdown order: %+v", res.Questions)
	}
	if res.Questions[0].Answered || !res.Questions[1].Answered {
		t.Fatalf("answered flags: %+v", res.Questions)
	}
	if res.TotalScore != 1 {
		t.Fatalf("TotalScore = %d", res.TotalScore)
	}
}
