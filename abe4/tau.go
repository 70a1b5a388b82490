package abe4

// Tau indexes every literal of a policy two ways: Get groups literals by
// their (auth, label) bucket, GetTilde groups them by auth alone. Both
// walks cover every literal regardless of polarity — encryption addresses
// its shared c_4 vector by whichever of the two a given ciphertext term
// needs, and the two groupings can and do assign the same numeric index to
// literals in different buckets; that collision is intentional, and is what
// lets c_4 stay a single vector of size max(Max(), MaxTilde())+1 instead of
// one vector per bucket.
//
// Both indices are built with one forward pass over Policy.Leaves(), in
// left-to-right leaf order, using a running per-group counter map; this
// sidesteps Go's nondeterministic map iteration order, since the index
// assigned to a leaf depends only on how many same-group leaves preceded it
// in the policy text.
type Tau struct {
	byBucket    map[*Lit]int
	byAuth      map[*Lit]int
	maxByBucket map[bucketKey]int
	maxByAuth   map[string]int
}

// BuildTau walks every literal of p once, assigning both indices.
func BuildTau(p *Policy) (*Tau, error) {
	bucketCounters := make(map[bucketKey]int)
	authCounters := make(map[string]int)
	byBucket := make(map[*Lit]int)
	byAuth := make(map[*Lit]int)

	for _, lit := range p.Leaves() {
		ua, err := ParseUserAttribute(lit.Attr)
		if err != nil {
			return nil, err
		}

		bk := bucketKey{ua.Auth, ua.Label}
		byBucket[lit] = bucketCounters[bk]
		bucketCounters[bk]++

		byAuth[lit] = authCounters[ua.Auth]
		authCounters[ua.Auth]++
	}

	maxByBucket := make(map[bucketKey]int, len(bucketCounters))
	for k, n := range bucketCounters {
		maxByBucket[k] = n - 1
	}
	maxByAuth := make(map[string]int, len(authCounters))
	for k, n := range authCounters {
		maxByAuth[k] = n - 1
	}

	return &Tau{
		byBucket:    byBucket,
		byAuth:      byAuth,
		maxByBucket: maxByBucket,
		maxByAuth:   maxByAuth,
	}, nil
}

// Get returns lit's position within all policy literals sharing its
// (auth, label) pair ("tau").
func (t *Tau) Get(lit *Lit) int {
	return t.byBucket[lit]
}

// GetTilde returns lit's position within all policy literals sharing its
// auth ("tau-tilde").
func (t *Tau) GetTilde(lit *Lit) int {
	return t.byAuth[lit]
}

// MaxInBucket returns the largest tau index assigned within (auth, label),
// or -1 if the bucket has no literals.
func (t *Tau) MaxInBucket(auth, label string) int {
	if n, ok := t.maxByBucket[bucketKey{auth, label}]; ok {
		return n
	}
	return -1
}

// MaxInAuth returns the largest tau-tilde index assigned within auth, or
// -1 if the authority has no literals.
func (t *Tau) MaxInAuth(auth string) int {
	if n, ok := t.maxByAuth[auth]; ok {
		return n
	}
	return -1
}

// Max returns the global maximum tau index across every (auth, label)
// bucket, or -1 if the policy has no literals.
func (t *Tau) Max() int {
	m := -1
	for _, n := range t.maxByBucket {
		if n > m {
			m = n
		}
	}
	return m
}

// MaxTilde returns the global maximum tau-tilde index across every
// authority, or -1 if the policy has no literals.
func (t *Tau) MaxTilde() int {
	m := -1
	for _, n := range t.maxByAuth {
		if n > m {
			m = n
		}
	}
	return m
}
