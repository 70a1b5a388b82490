package abe4

import (
	"math/big"
	"sort"

	"github.com/accless/abe4/internal/abeerrors"
)

// ShareEntry is one literal's signed-index vector into the random vector v
// a share evaluation is taken against: v[0] is conventionally the shared
// secret. A positive entry k means "+v[k]" contributes to this literal's
// share; a negative entry -k means "-v[k]".
type ShareEntry struct {
	Attr    UserAttribute
	Indices []int64
}

// Eval evaluates e's signed-index vector against v, returning
// sum(sign * v[|idx|]) over e.Indices.
func (e ShareEntry) Eval(v []*big.Int) *big.Int {
	sum := big.NewInt(0)
	for _, idx := range e.Indices {
		k := idx
		neg := k < 0
		if neg {
			k = -k
		}
		term := new(big.Int).Set(v[k])
		if neg {
			term.Neg(term)
		}
		sum = modOrder(sum.Add(sum, term))
	}
	return sum
}

// Share walks p's AST and returns one ShareEntry per literal, in
// left-to-right leaf order, deriving each literal's signed-index vector by
// the And/Or duality: Or passes its parent's index vector through
// unchanged to both children, so either child alone carries a full
// reconstruction witness; And allocates a fresh counter n (incremented
// once per And node encountered, in the same left-to-right traversal),
// giving its left child idcs++[+n] and its right child [-n] alone — the
// fresh ±n pair cancels when both children's shares are summed, which is
// what makes the construction an additive secret sharing scheme regardless
// of the random vector's concrete values.
func Share(p *Policy) ([]ShareEntry, error) {
	if p.Root == nil {
		return nil, abeerrors.New(abeerrors.KindContractViolation, "cannot share an empty policy")
	}

	var entries []ShareEntry
	var counter int64

	var walk func(e Expr, idcs []int64) error
	walk = func(e Expr, idcs []int64) error {
		switch n := e.(type) {
		case *Lit:
			ua, err := ParseUserAttribute(n.Attr)
			if err != nil {
				return err
			}
			entries = append(entries, ShareEntry{Attr: ua, Indices: idcs})
			return nil
		case *Or:
			if err := walk(n.Left, idcs); err != nil {
				return err
			}
			return walk(n.Right, idcs)
		case *And:
			counter++
			nIdx := counter
			left := append(append([]int64{}, idcs...), nIdx)
			right := []int64{-nIdx}
			if err := walk(n.Left, left); err != nil {
				return err
			}
			return walk(n.Right, right)
		default:
			return abeerrors.New(abeerrors.KindContractViolation, "unknown expression node")
		}
	}

	if err := walk(p.Root, []int64{0}); err != nil {
		return nil, err
	}
	return entries, nil
}

// AttrSet indexes a user's attribute set for Reconstruct's satisfiability
// and cost computations: exact membership for positive literals, and
// per-(auth,label) alternative-attribute lookups for negative ones.
type AttrSet struct {
	exact    map[UserAttribute]bool
	byBucket map[bucketKey][]string
}

// NewAttrSet builds an AttrSet from a flat attribute list.
func NewAttrSet(attrs []UserAttribute) AttrSet {
	s := AttrSet{
		exact:    make(map[UserAttribute]bool, len(attrs)),
		byBucket: make(map[bucketKey][]string),
	}
	for _, a := range attrs {
		s.exact[a] = true
		bk := bucketKey{a.Auth, a.Label}
		s.byBucket[bk] = append(s.byBucket[bk], a.Attr)
	}
	return s
}

// Alternatives returns the distinct attrs the set holds in (auth, label)
// other than attr, in the order they were added.
func (s AttrSet) Alternatives(auth, label, attr string) []string {
	var out []string
	for _, a := range s.byBucket[bucketKey{auth, label}] {
		if a != attr {
			out = append(out, a)
		}
	}
	return out
}

// satResult is the outcome of evaluating a subtree for satisfiability: the
// minimum-cost set of contributing leaf indices, and whether any exists.
type satResult struct {
	ok     bool
	cost   int
	leaves []int
}

// Reconstruct returns the minimum-cost set of literal indices (into
// p.Leaves(), which is also the order Tau/Tau-tilde assign indices in)
// that satisfy p against attrs, per the cost model: a positive literal
// costs 1 if matched exactly; a negative literal costs the number of
// alternative attrs under the same (auth, label) if the exact value is
// absent and at least one alternative is present; And sums costs; Or picks
// the cheaper satisfiable child. It returns abeerrors.KindUnsatisfiable if
// no satisfying set exists. The literal-index counter advances even for
// unsatisfied literals, so indices always agree with Policy.Leaves()'s
// numbering.
func Reconstruct(p *Policy, attrs []UserAttribute) ([]int, error) {
	if p.Root == nil {
		return nil, abeerrors.Sentinel(abeerrors.KindUnsatisfiable)
	}
	set := NewAttrSet(attrs)

	idx := 0
	var walk func(e Expr) (satResult, error)
	walk = func(e Expr) (satResult, error) {
		switch n := e.(type) {
		case *Lit:
			i := idx
			idx++
			ua, err := ParseUserAttribute(n.Attr)
			if err != nil {
				return satResult{}, err
			}
			if !n.Neg {
				if set.exact[ua] {
					return satResult{ok: true, cost: 1, leaves: []int{i}}, nil
				}
				return satResult{ok: false}, nil
			}
			if set.exact[ua] {
				return satResult{ok: false}, nil
			}
			alts := set.Alternatives(ua.Auth, ua.Label, ua.Attr)
			if len(alts) == 0 {
				return satResult{ok: false}, nil
			}
			return satResult{ok: true, cost: len(alts), leaves: []int{i}}, nil
		case *And:
			left, err := walk(n.Left)
			if err != nil {
				return satResult{}, err
			}
			right, err := walk(n.Right)
			if err != nil {
				return satResult{}, err
			}
			if !left.ok || !right.ok {
				return satResult{ok: false}, nil
			}
			leaves := append(append([]int{}, left.leaves...), right.leaves...)
			return satResult{ok: true, cost: left.cost + right.cost, leaves: leaves}, nil
		case *Or:
			left, err := walk(n.Left)
			if err != nil {
				return satResult{}, err
			}
			right, err := walk(n.Right)
			if err != nil {
				return satResult{}, err
			}
			switch {
			case left.ok && right.ok:
				if left.cost <= right.cost {
					return left, nil
				}
				return right, nil
			case left.ok:
				return left, nil
			case right.ok:
				return right, nil
			default:
				return satResult{ok: false}, nil
			}
		default:
			return satResult{}, abeerrors.New(abeerrors.KindContractViolation, "unknown expression node")
		}
	}

	res, err := walk(p.Root)
	if err != nil {
		return nil, err
	}
	if !res.ok {
		return nil, abeerrors.Sentinel(abeerrors.KindUnsatisfiable)
	}
	sort.Ints(res.leaves)
	return res.leaves, nil
}

// Satisfies reports whether attrs satisfies p, without computing a
// reconstruction set.
func Satisfies(p *Policy, attrs []UserAttribute) bool {
	_, err := Reconstruct(p, attrs)
	return err == nil
}
