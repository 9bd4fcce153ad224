package web

import (
	"github.com/aliskhannn/ap-prep/internal/domain/entities"
	"github.com/aliskhannn/ap-prep/internal/service"
)

type bankView struct {
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Questions int    `json:"questions"`
}

// questionView leaves out the answer until the user has picked a choice.
type questionView struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"q"`
	Choices []string `json:"choices"`
}

type feedbackView struct {
	Selected int    `json:"selected"`
	Correct  bool   `json:"correct"`
	Answer   int    `json:"answer"`
	Explain  string `json:"explain"`
	Ref      string `json:"ref,omitempty"`
}

type resultView struct {
	Correct int  `json:"correct"`
	Total   int  `json:"total"`
	Score   int  `json:"score"`
	Best    int  `json:"best"`
	Saved   bool `json:"saved"`
}

type quizView struct {
	ID       string        `json:"id"`
	Slug     string        `json:"slug"`
	Title    string        `json:"title"`
	Position int           `json:"position"`
	Total    int           `json:"total"`
	Correct  int           `json:"correct"`
	Score    int           `json:"score"`
	Finished bool          `json:"finished"`
	Terminal bool          `json:"terminal"`
	Question questionView  `json:"question"`
	Feedback *feedbackView `json:"feedback,omitempty"`
	Result   *resultView   `json:"result,omitempty"`
}

type scoreView struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	Score int    `json:"score"`
}

type progressView struct {
	Scores []scoreView `json:"scores"`
}

type circuitView struct {
	Mode      entities.Topology `json:"mode"`
	Voltage   float64           `json:"v"`
	R1        float64           `json:"r1"`
	R2        float64           `json:"r2"`
	Rt        float64           `json:"rt"`
	I         float64           `json:"i"`
	P         float64           `json:"p"`
	Branch    [2]float64        `json:"branch"`
	Shares    [2]float64        `json:"shares"`
	Label     string            `json:"label"`
	Formatted formattedCircuit  `json:"formatted"`
}

type formattedCircuit struct {
	Rt     string    `json:"rt"`
	I      string    `json:"i"`
	P      string    `json:"p"`
	Branch [2]string `json:"branch"`
}

func toBankViews(banks []entities.Bank) []bankView {
	out := make([]bankView, 0, len(banks))
	for _, b := range banks {
		out = append(out, bankView{Slug: b.Slug, Title: b.Title, Questions: b.Len()})
	}
	return out
}

func toQuizView(s *service.QuizState) quizView {
	v := quizView{
		ID:       s.ID,
		Slug:     s.Slug,
		Title:    s.Title,
		Position: s.Position,
		Total:    s.Total,
		Correct:  s.Correct,
		Score:    s.Score,
		Finished: s.Finished,
		Terminal: s.Terminal,
		Question: questionView{
			ID:      s.Question.ID,
			Prompt:  s.Question.Prompt,
			Choices: s.Question.Choices,
		},
	}

	if fb := s.Feedback; fb != nil {
		v.Feedback = &feedbackView{
			Selected: fb.Selected,
			Correct:  fb.Correct,
			Answer:   fb.Answer,
			Explain:  fb.Explain,
			Ref:      fb.Ref,
		}
	}

	if r := s.Result; r != nil {
		v.Result = &resultView{
			Correct: r.Correct,
			Total:   r.Total,
			Score:   r.Score,
			Best:    s.Best,
			Saved:   s.Saved,
		}
	}

	return v
}

func toCircuitView(r *service.CircuitReport) circuitView {
	label, _, _ := r.BranchLabel()

	return circuitView{
		Mode:    r.State.Topology,
		Voltage: r.State.Voltage,
		R1:      r.State.R1,
		R2:      r.State.R2,
		Rt:      r.Reading.Rt,
		I:       r.Reading.I,
		P:       r.Reading.P,
		Branch:  r.Reading.Branch,
		Shares:  r.Shares,
		Label:   label,
		Formatted: formattedCircuit{
			Rt:     r.Rt,
			I:      r.I,
			P:      r.P,
			Branch: r.Branch,
		},
	}
}
