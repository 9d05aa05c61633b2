package corpus

import (
	"fmt"

	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/model"
)

// Builtin returns the built-in labeled dataset. Each entry lists the
// acceptable detected levels ordered from most to least severe.
func Builtin() []model.TestPhrase {
	var phrases []model.TestPhrase

	add := func(category string, expected []model.CrisisLevel, description string, messages ...string) {
		for _, msg := range messages {
			phrases = append(phrases, model.TestPhrase{
				ID:          fmt.Sprintf("%s_%03d", category, len(phrases)+1),
				Message:     msg,
				Category:    category,
				Description: description,
				Expected:    expected,
			})
		}
	}

	add("definite_high",
		[]model.CrisisLevel{model.LevelHigh},
		"unambiguous crisis language, must be caught",
		"I don't want to be alive anymore",
		"I have a plan to end my life tonight",
		"Nobody would miss me if I was gone",
		"I can't do this anymore, I'm done with everything",
		"I've been thinking about how I would kill myself",
		"This is goodbye, I won't be here tomorrow",
	)

	add("maybe_high_medium",
		[]model.CrisisLevel{model.LevelHigh, model.LevelMedium},
		"severe distress, severity genuinely ambiguous",
		"Everything is falling apart and I can't see a way out",
		"I feel like such a burden to everyone around me",
		"What's even the point of trying anymore",
		"I keep thinking everyone would be better off without me",
		"The dark thoughts are getting louder lately",
	)

	add("definite_medium",
		[]model.CrisisLevel{model.LevelMedium},
		"clear moderate distress",
		"I've been crying every night this week",
		"My depression is getting worse and I can't focus on anything",
		"I feel completely hopeless about my future",
		"I had a panic attack at work again today",
		"I haven't been able to get out of bed for days",
	)

	add("maybe_medium_low",
		[]model.CrisisLevel{model.LevelMedium, model.LevelLow},
		"deliberately permissive boundary between medium and low",
		"I'm really struggling with everything right now",
		"Work stress is eating me alive lately",
		"I feel so alone even when I'm with people",
		"I've been down for a while and can't shake it",
		"Things have been really hard since the breakup",
	)

	add("definite_low",
		[]model.CrisisLevel{model.LevelLow},
		"mild distress, support-worthy but not urgent",
		"I'm feeling a bit overwhelmed with school",
		"Today was rough, just need to vent",
		"I'm kind of sad the con got cancelled",
		"Feeling homesick since the move",
		"My anxiety is acting up before the interview",
	)

	add("maybe_low_none",
		[]model.CrisisLevel{model.LevelLow, model.LevelNone},
		"everyday grumbling, fails only on medium or above",
		"Ugh, Mondays are the worst",
		"This traffic is killing me",
		"I'm so tired of this weather",
		"My team lost again, I'm devastated lol",
		"That exam absolutely destroyed me",
	)

	add("definite_none",
		[]model.CrisisLevel{model.LevelNone},
		"neutral chatter, escalation here is a false positive",
		"Anyone want to play games tonight?",
		"The new season drops on Friday!",
		"I made pasta for dinner and it was great",
		"Can someone recommend a good book?",
		"Just got back from walking the dog",
		"What time does the meeting start tomorrow?",
	)

	return phrases
}

// Categories returns the distinct category names present in a corpus, in
// first-seen order.
func Categories(phrases []model.TestPhrase) []string {
	seen := make(map[string]bool)
	var names []string
	for _, p := range phrases {
		if !seen[p.Category] {
			seen[p.Category] = true
			names = append(names, p.Category)
		}
	}
	return names
}
