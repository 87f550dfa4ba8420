package command

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dekarrin/notea/internal/action"
	"github.com/dekarrin/notea/internal/nterrors"
	"github.com/dekarrin/notea/internal/util"
	"github.com/dekarrin/notea/internal/world"
)

// MaxObjects is the most objects a single sentence can refer to.
const MaxObjects = 2

// DefaultDirectionVerb is the action a bare direction like "north" is sent to.
const DefaultDirectionVerb = "go"

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}'-]+`)

// fillers are words that can sit between object phrases without meaning
// anything to the parser.
var fillers = map[string]bool{
	"a": true, "an": true, "the": true, "some": true, "my": true,
	"and": true, "then": true, "of": true, "is": true, "are": true, "am": true,
	"to": true, "toward": true, "towards": true, "from": true, "at": true,
	"in": true, "inside": true, "within": true, "into": true, "onto": true,
	"through": true, "above": true, "over": true, "under": true, "below": true,
	"beneath": true, "underneath": true, "up": true, "down": true,
	"behind": true, "around": true, "out": true, "outside": true,
	"about": true, "on": true, "off": true, "with": true, "using": true,
}

// Vocabulary gives the phrases that name actions.
type Vocabulary interface {
	Phrases() []action.Phrase
}

// Parser resolves sentences into commands. Action phrases come from Vocab and
// directions from World.
type Parser struct {
	Vocab Vocabulary
	World *world.Graph

	// DirectionVerb is the action that a sentence made only of a direction
	// is sent to.
	DirectionVerb string
}

// NewParser returns a Parser that uses the DefaultDirectionVerb.
func NewParser(vocab Vocabulary, g *world.Graph) *Parser {
	return &Parser{Vocab: vocab, World: g, DirectionVerb: DefaultDirectionVerb}
}

// words splits text into folded words, dropping punctuation.
func words(text string) []string {
	return wordPattern.FindAllString(util.Fold(text), -1)
}

// Parse resolves a single sentence against scope, the things the player can
// currently refer to, in order of preference. On failure the error is an
// *nterrors.ParseFailure.
func (p *Parser) Parse(sentence string, scope []*world.Thing) (Parsed, error) {
	cmd := Parsed{Text: sentence}

	ws := words(sentence)
	if len(ws) == 0 {
		return cmd, nterrors.Parse(nterrors.NoInput, "")
	}

	verbLen, verb, act, ok := p.matchVerb(ws)
	if !ok {
		if dir, isDir := p.direction(ws); isDir && p.hasAction(p.DirectionVerb) {
			cmd.Verb = p.DirectionVerb
			cmd.Action = p.DirectionVerb
			cmd.Objects = []*world.Thing{dir}
			return cmd, nil
		}
		return cmd, nterrors.Parse(nterrors.UnknownAction, ws[0])
	}
	cmd.Verb = verb
	cmd.Action = act

	objs, err := p.resolveObjects(ws[verbLen:], scope)
	if err != nil {
		return cmd, err
	}
	cmd.Objects = objs
	return cmd, nil
}

// matchVerb finds the longest action phrase at the start of ws. Ties go to
// the phrase with more characters, then to the earlier registration.
func (p *Parser) matchVerb(ws []string) (n int, verb, act string, ok bool) {
	bestChars := 0
	bestSeq := 0
	for _, ph := range p.Vocab.Phrases() {
		pw := words(ph.Text)
		if len(pw) == 0 || len(pw) > len(ws) || !hasPrefix(ws, pw) {
			continue
		}

		chars := len(strings.Join(pw, " "))
		better := !ok ||
			len(pw) > n ||
			(len(pw) == n && chars > bestChars) ||
			(len(pw) == n && chars == bestChars && ph.Seq < bestSeq)
		if better {
			n, verb, act, ok = len(pw), strings.Join(pw, " "), ph.Action, true
			bestChars, bestSeq = chars, ph.Seq
		}
	}
	return n, verb, act, ok
}

func (p *Parser) hasAction(name string) bool {
	for _, ph := range p.Vocab.Phrases() {
		if ph.Action == name {
			return true
		}
	}
	return false
}

func (p *Parser) direction(ws []string) (*world.Thing, bool) {
	if p.World == nil || len(ws) == 0 {
		return nil, false
	}
	return p.World.Direction(strings.Join(ws, " "))
}

type nameMatch struct {
	thing    *world.Thing
	start    int
	end      int
	chars    int
	scopeIdx int
}

type resolved struct {
	thing *world.Thing
	start int
}

// resolveObjects finds the things that rest refers to.
func (p *Parser) resolveObjects(rest []string, scope []*world.Thing) ([]*world.Thing, error) {
	if len(rest) == 0 {
		return nil, nil
	}

	var candidates []nameMatch
	for i, t := range scope {
		for _, phrase := range t.Phrases() {
			pw := words(phrase)
			if len(pw) == 0 {
				continue
			}
			for start := 0; start+len(pw) <= len(rest); start++ {
				if hasPrefix(rest[start:], pw) {
					candidates = append(candidates, nameMatch{
						thing:    t,
						start:    start,
						end:      start + len(pw),
						chars:    len(phrase),
						scopeIdx: i,
					})
				}
			}
		}
	}

	// longest names claim their words first; equal names go to whatever
	// comes first in scope
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if la, lb := a.end-a.start, b.end-b.start; la != lb {
			return la > lb
		}
		if a.chars != b.chars {
			return a.chars > b.chars
		}
		if a.scopeIdx != b.scopeIdx {
			return a.scopeIdx < b.scopeIdx
		}
		return a.start < b.start
	})

	covered := make([]bool, len(rest))
	chosen := map[*world.Thing]bool{}
	var found []resolved

	for _, m := range candidates {
		overlap := false
		for i := m.start; i < m.end; i++ {
			if covered[i] {
				overlap = true
				break
			}
		}
		if overlap {
			continue
		}
		for i := m.start; i < m.end; i++ {
			covered[i] = true
		}
		if !chosen[m.thing] {
			chosen[m.thing] = true
			found = append(found, resolved{thing: m.thing, start: m.start})
		}
	}

	if len(found) == 0 {
		if dir, ok := p.direction(rest); ok {
			return []*world.Thing{dir}, nil
		}
	}

	// whatever is left over must be a partial name or it is not understood
	for _, run := range uncoveredRuns(rest, covered) {
		var meaningful []string
		for _, w := range rest[run.start:run.end] {
			if !fillers[w] {
				meaningful = append(meaningful, w)
			}
		}
		if len(meaningful) == 0 {
			continue
		}

		t, err := partialMatch(meaningful, scope, chosen)
		if err != nil {
			return nil, err
		}
		if t == nil {
			// more of the name of something already found, as in "tatty gown"
			continue
		}
		chosen[t] = true
		found = append(found, resolved{thing: t, start: run.start})
	}

	if len(found) > MaxObjects {
		return nil, nterrors.Parse(nterrors.TooManyObjects, strings.Join(rest, " "))
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].start < found[j].start
	})
	objs := make([]*world.Thing, len(found))
	for i := range found {
		objs[i] = found[i].thing
	}
	return objs, nil
}

type span struct {
	start, end int
}

func uncoveredRuns(ws []string, covered []bool) []span {
	var runs []span
	start := -1
	for i := range ws {
		if !covered[i] && start < 0 {
			start = i
		} else if covered[i] && start >= 0 {
			runs = append(runs, span{start, i})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, span{start, len(ws)})
	}
	return runs
}

// partialMatch finds the single thing in scope with a name containing the
// words ws, e.g. "brush" for "hair brush". If the only things that match are
// already in found, it returns nil and no error.
func partialMatch(ws []string, scope []*world.Thing, found map[*world.Thing]bool) (*world.Thing, error) {
	phrase := strings.Join(ws, " ")

	var matches []*world.Thing
	absorbed := false
	for _, t := range scope {
		for _, name := range t.Phrases() {
			if containsRun(words(name), ws) {
				if found[t] {
					absorbed = true
				} else {
					matches = append(matches, t)
				}
				break
			}
		}
	}

	switch len(matches) {
	case 0:
		if absorbed {
			return nil, nil
		}
		return nil, nterrors.Parse(nterrors.UnknownObject, phrase)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i := range matches {
			names[i] = matches[i].The()
		}
		return nil, nterrors.Parse(nterrors.AmbiguousObject, phrase, names...)
	}
}

func hasPrefix(ws, prefix []string) bool {
	if len(prefix) > len(ws) {
		return false
	}
	for i := range prefix {
		if ws[i] != prefix[i] {
			return false
		}
	}
	return true
}

func containsRun(ws, run []string) bool {
	for i := 0; i+len(run) <= len(ws); i++ {
		if hasPrefix(ws[i:], run) {
			return true
		}
	}
	return false
}
