// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

// voteLedger records which display name voted for which option in the
// current poll. A name appears at most once; votes are final.
type voteLedger struct {
	votes map[string]int
}

func newVoteLedger() *voteLedger {
	return &voteLedger{votes: make(map[string]int)}
}

// record stores the vote unless name already voted
func (l *voteLedger) record(name string, optionIndex int) bool {
	if _, ok := l.votes[name]; ok {
		return false
	}
	l.votes[name] = optionIndex
	return true
}

func (l *voteLedger) hasVoted(name string) bool {
	_, ok := l.votes[name]
	return ok
}

// size is the number of distinct voters
func (l *voteLedger) size() int {
	return len(l.votes)
}

func (l *voteLedger) reset() {
	l.votes = make(map[string]int)
}
