package daemon

import (
	"log/slog"
	"path/filepath"

	"dropsort/internal/classify"
	"dropsort/internal/place"
	"dropsort/internal/resolve"
	"dropsort/internal/watcher"
)

// Pipeline runs one arrival through classify, resolve, and place.
// Every outcome produces exactly one status line naming the file.
type Pipeline struct {
	classifier *classify.Classifier
	resolver   *resolve.Resolver
	logger     *slog.Logger
}

// NewPipeline wires the three stages behind a single watcher handler.
func NewPipeline(classifier *classify.Classifier, resolver *resolve.Resolver, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		classifier: classifier,
		resolver:   resolver,
		logger:     logger.With("component", "pipeline"),
	}
}

// Handle processes a single settled arrival. Failures are terminal for the
// file, never for the loop: the file stays in staging and the outcome says why.
func (p *Pipeline) Handle(path string) watcher.Outcome {
	filename := filepath.Base(path)

	desc, err := p.classifier.Classify(filename)
	if err != nil {
		p.logger.Warn("rejected", "file", filename, "reason", err)
		return watcher.OutcomeRejected
	}

	plan := p.resolver.Resolve(desc, filename, place.FileExists)

	result, err := place.Place(path, desc, plan)
	if err != nil {
		if place.IsSourceVanished(err) {
			p.logger.Debug("source vanished before placement", "file", filename)
			return watcher.OutcomeDiscarded
		}
		p.logger.Error("placement failed", "file", filename, "error", err)
		return watcher.OutcomeRejected
	}

	p.logger.Info("placed",
		"file", filename,
		"label", result.Label,
		"kind", result.Kind,
		"dest", result.FinalPath,
		"renamed", result.Collided,
	)
	return watcher.OutcomePlaced
}
