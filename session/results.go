// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import "github.com/danielhkuo/live-poll/models"

// ComputeResults derives per-option votes and percentages in option order.
// totalVotes is the number of distinct voters. Percentages are rounded half
// up and are all zero when nobody has voted. A nil poll yields nil.
func ComputeResults(poll *models.Poll, totalVotes int) []models.OptionResult {
	if poll == nil {
		return nil
	}

	results := make([]models.OptionResult, len(poll.Options))
	for i, opt := range poll.Options {
		results[i] = models.OptionResult{
			Text:       opt.Text,
			Votes:      opt.Votes,
			Percentage: percentage(opt.Votes, totalVotes),
		}
	}
	return results
}

// percentage computes round(votes/total*100) with halves rounded up
func percentage(votes, total int) int {
	if total <= 0 {
		return 0
	}
	return (votes*200 + total) / (2 * total)
}
