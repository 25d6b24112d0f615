package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/Saravana-31/Form-Builder/internal/grading"
	"github.com/Saravana-31/Form-Builder/internal/model"
	"github.com/Saravana-31/Form-Builder/internal/util"
)

type QuestionStat struct {
	QuestionID    string             `json:"question_id"`
	Type          model.QuestionType `json:"type"`
	Question      string             `json:"question"`
	Points        int                `json:"points"`
	Answered      int                `json:"answered"`
	AverageEarned float64            `json:"average_earned"`
	Percent       int                `json:"percent"`
}

type ResultsSummary struct {
	FormID         string         `json:"form_id"`
	Title          string         `json:"title"`
	TotalResponses int            `json:"total_responses"`
	AverageScore   float64        `json:"average_score"`
	AverageTime    float64        `json:"average_time"`
	AverageTimeStr string         `json:"average_time_display"`
	AveragePercent int            `json:"average_percent"`
	Questions      []QuestionStat `json:"questions"`
}

type ResultsService struct {
	Forms     *FormService
	Responses *ResponseService
	Grader    grading.Grader
}

func NewResultsService(forms *FormService, responses *ResponseService, grader grading.Grader) *ResultsService {
	return &ResultsService{Forms: forms, Responses: responses, Grader: grader}
}

// FormatDuration renders seconds as "Xm Ys".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func (s *ResultsService) load(ctx context.Context, formID string) (*model.Form, []model.FormResponse, error) {
	form, err := s.Forms.Get(ctx, formID)
	if err != nil {
		return nil, nil, err
	}
	responses, err := s.Responses.List(ctx, form.PublicID())
	if err != nil {
		return nil, nil, err
	}
	return form, responses, nil
}

func (s *ResultsService) Summary(ctx context.Context, formID string) (*ResultsSummary, error) {
	form, responses, err := s.load(ctx, formID)
	if err != nil {
		return nil, err
	}
	return Summarize(form, responses, s.Grader), nil
}

// Summarize computes the aggregate statistics of responses. The average
// percentage is taken against the max score of the most recent response.
func Summarize(form *model.Form, responses []model.FormResponse, grader grading.Grader) *ResultsSummary {
	sum := &ResultsSummary{
		FormID:         form.PublicID(),
		Title:          form.Title,
		TotalResponses: len(responses),
		Questions:      make([]QuestionStat, len(form.Questions)),
	}
	for i, q := range form.Questions {
		sum.Questions[i] = QuestionStat{QuestionID: q.ID, Type: q.Type, Question: q.Question, Points: q.Points}
	}
	if len(responses) == 0 {
		sum.AverageTimeStr = FormatDuration(0)
		return sum
	}

	var scoreTotal, timeTotal float64
	earned := make([]float64, len(form.Questions))
	for _, r := range responses {
		scoreTotal += float64(r.Answers.Score)
		timeTotal += float64(r.Answers.TimeSpent)

		res := grader.Score(form.Questions, r.Answers.Responses)
		for i, qr := range res.Questions {
			if qr.Answered {
				sum.Questions[i].Answered++
			}
			earned[i] += qr.Earned
		}
	}

	n := float64(len(responses))
	sum.AverageScore = scoreTotal / n
	sum.AverageTime = timeTotal / n
	sum.AverageTimeStr = FormatDuration(roundHalfUp(sum.AverageTime))
	if maxScore := responses[0].Answers.MaxScore; maxScore > 0 {
		sum.AveragePercent = roundHalfUp(sum.AverageScore / float64(maxScore) * 100)
	}

	for i := range sum.Questions {
		avg := earned[i] / n
		sum.Questions[i].AverageEarned = math.Round(avg*100) / 100
		if p := sum.Questions[i].Points; p > 0 {
			sum.Questions[i].Percent = roundHalfUp(avg / float64(p) * 100)
		}
	}
	return sum
}

// ExportCSV writes one row per response and returns the download filename.
func (s *ResultsService) ExportCSV(ctx context.Context, formID string, w io.Writer) (string, error) {
	form, responses, err := s.load(ctx, formID)
	if err != nil {
		return "", err
	}
	if err := WriteResultsCSV(w, responses); err != nil {
		return "", util.WrapStorage("write csv", err)
	}
	return form.Title + "-results.csv", nil
}

func WriteResultsCSV(w io.Writer, responses []model.FormResponse) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Submission Date", "Score", "Max Score", "Percentage", "Time Spent"}); err != nil {
		return err
	}
	for _, r := range responses {
		row := []string{
			r.SubmittedAt.Local().Format(util.TimeFormat),
			strconv.Itoa(r.Answers.Score),
			strconv.Itoa(r.Answers.MaxScore),
			strconv.Itoa(r.Answers.Percentage()),
			FormatDuration(r.Answers.TimeSpent),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
