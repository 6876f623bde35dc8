// internal/scoring/scorer.go
package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"planora/internal/allocation"
	"planora/internal/domain"
)

var ErrUnsupported = errors.New("unsupported submission")

// UnavailableNotice is attached to an analysis computed locally after the
// scoring service failed.
const UnavailableNotice = "The analysis service could not be reached. Showing estimates from built-in rules."

// Scorer produces analyses for typed submissions.
type Scorer interface {
	Allocate(ctx context.Context, p domain.FinancialProfile) (domain.AllocationResult, error)
	AnalyzeDebt(ctx context.Context, p domain.DebtProfile) (domain.DebtAnalysis, error)
	AnalyzeInvestment(ctx context.Context, p domain.InvestmentProfile) (domain.InvestmentAnalysis, error)
	AnalyzeGoals(ctx context.Context, p domain.GoalPlan) (domain.GoalAnalysis, error)
}

// Engine is the in-process rule engine. It never fails.
type Engine struct{}

func (Engine) Allocate(_ context.Context, p domain.FinancialProfile) (domain.AllocationResult, error) {
	return allocation.Allocate(p), nil
}

func (Engine) AnalyzeDebt(_ context.Context, p domain.DebtProfile) (domain.DebtAnalysis, error) {
	return AnalyzeDebt(p), nil
}

func (Engine) AnalyzeInvestment(_ context.Context, p domain.InvestmentProfile) (domain.InvestmentAnalysis, error) {
	return AnalyzeInvestment(p), nil
}

func (Engine) AnalyzeGoals(_ context.Context, p domain.GoalPlan) (domain.GoalAnalysis, error) {
	return AnalyzeGoals(p), nil
}

// Analyze dispatches a submission to the matching scorer call.
func Analyze(ctx context.Context, s Scorer, sub domain.Submission) (domain.Analysis, error) {
	var out domain.Analysis
	switch v := sub.(type) {
	case domain.FinancialProfile:
		return allocate(ctx, s, v)
	case domain.SavingsProfile:
		return allocate(ctx, s, v.FinancialProfile)
	case domain.DebtProfile:
		r, err := s.AnalyzeDebt(ctx, v)
		if err != nil {
			return out, fmt.Errorf("analyze debt: %w", err)
		}
		out.Debt = &r
	case domain.InvestmentProfile:
		r, err := s.AnalyzeInvestment(ctx, v)
		if err != nil {
			return out, fmt.Errorf("analyze investment: %w", err)
		}
		out.Investment = &r
	case domain.GoalPlan:
		r, err := s.AnalyzeGoals(ctx, v)
		if err != nil {
			return out, fmt.Errorf("analyze goals: %w", err)
		}
		out.Goals = &r
	default:
		return out, fmt.Errorf("%w: %T", ErrUnsupported, sub)
	}
	return out, nil
}

func allocate(ctx context.Context, s Scorer, p domain.FinancialProfile) (domain.Analysis, error) {
	r, err := s.Allocate(ctx, p)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("allocate: %w", err)
	}
	if r, err = allocation.Check(r); err != nil {
		return domain.Analysis{}, fmt.Errorf("allocate: %w", err)
	}
	return domain.Analysis{
		Allocation: &r,
		Plan:       allocation.Plan(r, p.MonthlyIncome),
	}, nil
}

// Service scores with the remote scorer when one is configured and falls back
// to the local engine when it fails.
type Service struct {
	remote Scorer
	local  Engine
}

// NewService returns a Service. A nil remote scores locally only.
func NewService(remote Scorer) *Service {
	return &Service{remote: remote}
}

func (s *Service) Analyze(ctx context.Context, sub domain.Submission) (domain.Analysis, error) {
	if s.remote == nil {
		return Analyze(ctx, s.local, sub)
	}
	out, err := Analyze(ctx, s.remote, sub)
	if err == nil {
		return out, nil
	}
	if errors.Is(err, ErrUnsupported) {
		return out, err
	}
	slog.Warn("scoring service failed, using local rules",
		"questionnaire", sub.Questionnaire(), "error", err)

	out, err = Analyze(ctx, s.local, sub)
	if err != nil {
		return out, err
	}
	out.Notice = UnavailableNotice
	return out, nil
}
