package media

import "context"

// PhotoAnalyzer derives a short textual assessment of a photo attachment.
type PhotoAnalyzer interface {
	Analyze(ctx context.Context, data []byte) (string, error)
}

const stubAnalysisText = "AI: Detected potential issue; please verify"

// StubAnalyzer returns a fixed assessment regardless of input. Real
// inference is a collaborator behind the PhotoAnalyzer interface.
type StubAnalyzer struct{}

func (StubAnalyzer) Analyze(_ context.Context, _ []byte) (string, error) {
	return stubAnalysisText, nil
}
