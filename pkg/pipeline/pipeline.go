// Package pipeline wires the resolver, the acquirer and the extractor into
// a single analysis run.
//
// # Architecture
//
// An analysis has three stages per manifest:
//
//  1. Resolve: walk the POM tree into a deduplicated dependency list
//  2. Acquire: turn each coordinate into archive bytes (local, prompt, download)
//  3. Extract: scan the archive into class, method and field metadata
//
// Dependencies are processed serially in resolution order. Extraction
// results are memoized per coordinate, so a second run over the same tree
// skips acquisition entirely.
//
// A failure for one dependency never aborts the run. It is recorded in the
// report as a [Failure] and the next dependency is processed. Only a root
// manifest failure or context cancellation ends the run early.
//
// # Usage
//
//	runner := pipeline.NewRunner(pipeline.Options{
//	    Resolver:  res,
//	    Acquirer:  acq,
//	    Extractor: ext,
//	    Cache:     st,
//	    Logger:    logger,
//	})
//	report, err := runner.Analyze(ctx, "pom.xml")
package pipeline

import (
	"time"

	"github.com/matzehuels/jarlens/pkg/errors"
	"github.com/matzehuels/jarlens/pkg/javaapi"
	"github.com/matzehuels/jarlens/pkg/maven"
)

// Report is the outcome of an analysis run.
type Report struct {
	Manifest  string             `json:"manifest,omitempty"`
	Resolved  int                `json:"resolved"`
	Excluded  []maven.Dependency `json:"excluded,omitempty"`
	Artifacts []Artifact         `json:"artifacts"`
	Failures  []Failure          `json:"failures,omitempty"`
	Stats     Stats              `json:"stats"`
}

// Artifact is the extracted API of one coordinate.
type Artifact struct {
	Coordinate maven.Coordinate `json:"coordinate"`
	Cached     bool             `json:"cached"`
	Classes    []javaapi.Class  `json:"classes"`
}

// Failure records why a dependency produced no metadata.
type Failure struct {
	Coordinate string      `json:"coordinate"`
	Code       errors.Code `json:"code"`
	Message    string      `json:"message"`
}

// Stats holds timing and count information for a run.
type Stats struct {
	ResolveTime time.Duration `json:"resolve_time"`
	AnalyzeTime time.Duration `json:"analyze_time"`
	CacheHits   int           `json:"cache_hits"`
	Classes     int           `json:"classes"`
}

// NewFailure builds the report entry for err.
func NewFailure(c maven.Coordinate, err error) Failure {
	return Failure{
		Coordinate: c.String(),
		Code:       errors.GetCode(err),
		Message:    errors.UserMessage(err),
	}
}
