// Package bench compares signatures observed by this pipeline against an
// external reference source (a pubsub log subscription, in the system
// this models). The pubsub client itself is out of scope here — only the
// comparison and its tally are implemented; see Report.
package bench

import "github.com/sirupsen/logrus"

// TimedSignature pairs a transaction signature with the timestamp (unix
// seconds) it was observed at.
type TimedSignature struct {
	Timestamp int64
	Signature string
}

// Report tallies how this pipeline's observed signatures compare against
// a reference source's: how many the pipeline never saw, and relative to
// the ones it did see, how many it observed before/after the reference.
type Report struct {
	ReferenceCount int
	PipelineCount  int
	Miss           int
	Slower         int
	Faster         int
}

// Compare reduces a reference set and this pipeline's own observed set
// into a Report. A signature present in reference but absent from
// pipeline counts as a miss; otherwise the two timestamps are compared
// to classify the pipeline's relative speed.
func Compare(reference, pipeline []TimedSignature) Report {
	pipelineByKey := make(map[string]int64, len(pipeline))
	for _, s := range pipeline {
		pipelineByKey[s.Signature] = s.Timestamp
	}

	report := Report{ReferenceCount: len(reference), PipelineCount: len(pipeline)}
	for _, ref := range reference {
		pipelineTs, ok := pipelineByKey[ref.Signature]
		if !ok {
			report.Miss++
			continue
		}
		switch {
		case pipelineTs > ref.Timestamp:
			report.Slower++
		case pipelineTs < ref.Timestamp:
			report.Faster++
		}
	}
	return report
}

// Log writes the report as a sequence of info lines, matching the
// original comparison routine's line-by-line summary.
func (r Report) Log(log *logrus.Entry) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log.Info("Benchmark results:")
	log.Infof("Reference sigs: %d", r.ReferenceCount)
	log.Infof("Pipeline sigs: %d", r.PipelineCount)
	log.Infof("Miss count: %d", r.Miss)
	log.Infof("Slower count: %d", r.Slower)
	log.Infof("Faster count: %d", r.Faster)
}
