package model_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/floatsim/internal/model"
	"github.com/san-kum/floatsim/internal/model/modeltest"
)

var _ = Describe("Adapter lifecycle", func() {
	var (
		ctx    context.Context
		engine *modeltest.Engine
		m      *model.Adapter
	)

	BeforeEach(func() {
		ctx = context.Background()
		engine = modeltest.New(10, "operating", "parked", "storm")
		m = model.New(engine)
	})

	It("starts constructed", func() {
		Expect(m.Phase()).To(Equal(model.Constructed))
	})

	It("moves strictly forward through the stages", func() {
		Expect(m.AnalyzeUnloaded(ctx)).To(Succeed())
		Expect(m.Phase()).To(Equal(model.UnloadedAnalyzed))
		Expect(m.SolveEigen(ctx)).To(Succeed())
		Expect(m.Phase()).To(Equal(model.EigenSolved))
		Expect(m.AnalyzeCases(ctx, false)).To(Succeed())
		Expect(m.Phase()).To(Equal(model.CaseAnalyzed))
		Expect(engine.Calls).To(Equal([]string{"unloaded", "eigen", "case-0", "case-1", "case-2"}))
	})

	Context("when a stage is invoked before its prerequisite", func() {
		It("refuses to solve eigen on a constructed model", func() {
			Expect(m.SolveEigen(ctx)).To(MatchError(model.ErrNotReady))
			Expect(engine.Calls).To(BeEmpty())
		})

		It("refuses to analyze cases before the eigen solve", func() {
			Expect(m.AnalyzeUnloaded(ctx)).To(Succeed())
			Expect(m.AnalyzeCases(ctx, true)).To(MatchError(model.ErrNotReady))
			Expect(m.Phase()).To(Equal(model.UnloadedAnalyzed))
			Expect(engine.Calls).To(Equal([]string{"unloaded"}))
		})

		It("refuses to return a response before cases are analyzed", func() {
			Expect(m.AnalyzeUnloaded(ctx)).To(Succeed())
			Expect(m.SolveEigen(ctx)).To(Succeed())
			_, _, err := m.PlatformResponse(0)
			Expect(err).To(MatchError(model.ErrNotReady))
		})
	})

	Context("when an earlier stage is invoked after a later one", func() {
		It("rejects going backwards", func() {
			Expect(m.AnalyzeUnloaded(ctx)).To(Succeed())
			Expect(m.SolveEigen(ctx)).To(Succeed())
			Expect(m.AnalyzeUnloaded(ctx)).To(MatchError(model.ErrOutOfOrder))
			Expect(m.Phase()).To(Equal(model.EigenSolved))
		})
	})

	It("recomputes the unloaded stage idempotently", func() {
		Expect(m.AnalyzeUnloaded(ctx)).To(Succeed())
		first, err := m.Statics()
		Expect(err).NotTo(HaveOccurred())

		Expect(m.AnalyzeUnloaded(ctx)).To(Succeed())
		second, err := m.Statics()
		Expect(err).NotTo(HaveOccurred())

		Expect(second).To(Equal(first))
		Expect(m.Phase()).To(Equal(model.UnloadedAnalyzed))
	})

	Context("with fatal stage errors", func() {
		It("stays constructed when equilibrium fails", func() {
			engine.StaticsErr = fmt.Errorf("residual grew: %w", model.ErrConvergence)
			Expect(m.AnalyzeUnloaded(ctx)).To(MatchError(model.ErrConvergence))
			Expect(m.Phase()).To(Equal(model.Constructed))
		})

		It("propagates a singular system", func() {
			engine.EigenErr = model.ErrSingularSystem
			Expect(m.AnalyzeUnloaded(ctx)).To(Succeed())
			Expect(m.SolveEigen(ctx)).To(MatchError(model.ErrSingularSystem))
			Expect(m.Phase()).To(Equal(model.UnloadedAnalyzed))
		})

		It("aborts on a case error that is not a definition error", func() {
			engine.Failures[1] = errors.New("solver exploded")
			Expect(m.AnalyzeUnloaded(ctx)).To(Succeed())
			Expect(m.SolveEigen(ctx)).To(Succeed())

			err := m.AnalyzeCases(ctx, false)
			var ce *model.CaseError
			Expect(errors.As(err, &ce)).To(BeTrue())
			Expect(ce.Index).To(Equal(1))
			Expect(m.Phase()).To(Equal(model.EigenSolved))
		})
	})

	Context("with a malformed load case", func() {
		BeforeEach(func() {
			engine.Failures[1] = fmt.Errorf("sea state %q undefined: %w", "storm", model.ErrCaseDefinition)
			Expect(m.AnalyzeUnloaded(ctx)).To(Succeed())
			Expect(m.SolveEigen(ctx)).To(Succeed())
		})

		It("skips only that case and keeps the others", func() {
			Expect(m.AnalyzeCases(ctx, false)).To(Succeed())
			Expect(m.Phase()).To(Equal(model.CaseAnalyzed))

			results, err := m.Results()
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
			Expect(results[0].Case.Index).To(Equal(0))
			Expect(results[1].Case.Index).To(Equal(2))

			diags := m.Diagnostics()
			Expect(diags).To(HaveLen(1))
			Expect(diags[0].Case.Index).To(Equal(1))
			Expect(diags[0].Err).To(MatchError(model.ErrCaseDefinition))
		})

		It("returns the last successful case as the platform response", func() {
			Expect(m.AnalyzeCases(ctx, false)).To(Succeed())
			w, rao, err := m.PlatformResponse(0)
			Expect(err).NotTo(HaveOccurred())

			modes, nw := rao.Shape()
			Expect(modes).To(Equal(6))
			Expect(nw).To(Equal(len(w)))
			Expect(rao.At(model.Heave, 3)).To(Equal(modeltest.Value(model.Heave, 3, 2)))
		})
	})

	It("fails the stage when every case is malformed", func() {
		for i := 0; i < 3; i++ {
			engine.Failures[i] = model.ErrCaseDefinition
		}
		Expect(m.AnalyzeUnloaded(ctx)).To(Succeed())
		Expect(m.SolveEigen(ctx)).To(Succeed())
		err := m.AnalyzeCases(ctx, false)
		Expect(err).To(MatchError(model.ErrCaseDefinition))
		var ce *model.CaseError
		Expect(errors.As(err, &ce)).To(BeTrue())
		Expect(ce.Index).To(Equal(0))
		Expect(err.Error()).To(ContainSubstring("case 3 (storm)"))
		Expect(m.Diagnostics()).To(BeEmpty())
		Expect(m.Phase()).To(Equal(model.EigenSolved))
	})

	It("keeps the previous results when a re-run fails for every case", func() {
		Expect(m.AnalyzeUnloaded(ctx)).To(Succeed())
		Expect(m.SolveEigen(ctx)).To(Succeed())
		Expect(m.AnalyzeCases(ctx, false)).To(Succeed())

		for i := 0; i < 3; i++ {
			engine.Failures[i] = model.ErrCaseDefinition
		}
		Expect(m.AnalyzeCases(ctx, false)).To(MatchError(model.ErrCaseDefinition))

		Expect(m.Phase()).To(Equal(model.CaseAnalyzed))
		results, err := m.Results()
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		Expect(m.Diagnostics()).To(BeEmpty())
	})

	It("rejects an unknown platform index", func() {
		Expect(m.AnalyzeUnloaded(ctx)).To(Succeed())
		Expect(m.SolveEigen(ctx)).To(Succeed())
		Expect(m.AnalyzeCases(ctx, false)).To(Succeed())
		_, _, err := m.PlatformResponse(3)
		Expect(err).To(MatchError(model.ErrPlatformIndex))
	})

	It("hands out copies of the response", func() {
		Expect(m.AnalyzeUnloaded(ctx)).To(Succeed())
		Expect(m.SolveEigen(ctx)).To(Succeed())
		Expect(m.AnalyzeCases(ctx, false)).To(Succeed())

		_, rao, err := m.PlatformResponse(0)
		Expect(err).NotTo(HaveOccurred())
		rao.Set(model.Surge, 0, 0)

		_, again, err := m.PlatformResponse(0)
		Expect(err).NotTo(HaveOccurred())
		Expect(again.At(model.Surge, 0)).NotTo(BeZero())
	})

	It("renders in any phase", func() {
		var buf bytes.Buffer
		Expect(m.Render(&buf, true)).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("grid=false"))
	})
})
