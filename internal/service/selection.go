package service

import (
	"math/rand"
	"sort"

	"jamb_cbt_backend/internal/model"
)

// sampleQuestions draws up to n questions from the pool without replacement.
// If the pool is smaller than n the whole pool is taken; a short pool never
// fails attempt creation. When shuffle is false the sampled questions keep
// their pool order so the section presents in a stable sequence.
func sampleQuestions(rng *rand.Rand, pool []model.Question, n int, shuffle bool) []model.Question {
	if n >= len(pool) {
		selected := append([]model.Question(nil), pool...)
		if shuffle {
			rng.Shuffle(len(selected), func(i, j int) {
				selected[i], selected[j] = selected[j], selected[i]
			})
		}
		return selected
	}

	idx := rng.Perm(len(pool))[:n]
	if !shuffle {
		sort.Ints(idx)
	}

	selected := make([]model.Question, 0, n)
	for _, i := range idx {
		selected = append(selected, pool[i])
	}
	return selected
}

// shuffledOptionOrder returns a per-attempt permutation of the question's
// option ids. The shared question row is never mutated; the permutation
// lives only in the attempt's frozen list.
func shuffledOptionOrder(rng *rand.Rand, q *model.Question) ([]string, error) {
	opts, err := q.DecodedOptions()
	if err != nil {
		return nil, err
	}
	if len(opts) == 0 {
		return nil, nil
	}

	ids := make([]string, len(opts))
	for i, o := range opts {
		ids[i] = o.ID
	}
	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids, nil
}

// buildFrozenList materializes the attempt's question list from the
// template's sections, in template order. The list is frozen at creation and
// never regenerated.
func buildFrozenList(rng *rand.Rand, sections []model.ExamSection, pools map[string][]model.Question) ([]model.AttemptQuestion, error) {
	var frozen []model.AttemptQuestion
	used := make(map[string]bool)
	for _, section := range sections {
		// Two sections over the same subject must not hand out the same
		// question twice within one attempt.
		pool := make([]model.Question, 0, len(pools[section.SubjectID]))
		for _, q := range pools[section.SubjectID] {
			if !used[q.ID] {
				pool = append(pool, q)
			}
		}

		selected := sampleQuestions(rng, pool, section.NumQuestions, section.ShuffleQuestions)
		for i := range selected {
			used[selected[i].ID] = true
			entry := model.AttemptQuestion{
				QuestionID: selected[i].ID,
				SectionID:  section.ID,
			}
			if section.ShuffleOptions {
				order, err := shuffledOptionOrder(rng, &selected[i])
				if err != nil {
					return nil, err
				}
				entry.OptionOrder = order
			}
			frozen = append(frozen, entry)
		}
	}
	return frozen, nil
}
