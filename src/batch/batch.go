// Package batch runs conversions for a selected list of source files,
// strictly one at a time: the application under automation is an exclusive
// resource, so a conversion must fully finish, teardown included, before the
// next one launches.
package batch

import "log"

// ConvertFunc is the engine boundary: one source file in, a binary outcome
// with a diagnostic message out.
type ConvertFunc func(sourcePath, outputDir, name string) (bool, string)

// Item is one unit of batch work.
type Item struct {
	Source    string
	OutputDir string
	Name      string
}

// FailureRecord pairs a failed file with its reason.
type FailureRecord struct {
	File   string
	Reason string
}

// Results aggregates per-file outcomes.
type Results struct {
	Succeeded []string
	Failed    []FailureRecord
}

func (r Results) AllSucceeded() bool { return len(r.Failed) == 0 }

// Progress is invoked before each item starts. index is 1-based.
type Progress func(index, total int, item Item)

// Run converts the items sequentially and aggregates the outcomes. A failed
// item does not stop the batch; retrying is left to the caller.
func Run(items []Item, convert ConvertFunc, progress Progress) Results {
	var results Results
	total := len(items)

	for i, item := range items {
		if progress != nil {
			progress(i+1, total, item)
		}
		log.Printf("Converting %s (%d/%d)", item.Source, i+1, total)

		ok, message := convert(item.Source, item.OutputDir, item.Name)
		if ok {
			results.Succeeded = append(results.Succeeded, item.Name)
		} else {
			results.Failed = append(results.Failed, FailureRecord{File: item.Name, Reason: message})
		}
	}

	return results
}
