package abe4

// bucketKey identifies an (auth, label) pair that Iota and Tau both index
// their entries within.
type bucketKey struct {
	auth  string
	label string
}

// Iota is the dense index assigned to each qualified attribute a user
// holds. The index for a given (auth, label, attr) triple restarts at 0 for
// each distinct (auth, label) bucket and is assigned in the order the
// attribute first appears in the user's attribute list — never sorted, so
// construction only needs one forward pass with a per-bucket counter, which
// sidesteps Go's nondeterministic map iteration order entirely (the result
// depends only on input order, not on how any map here happens to be
// walked).
type Iota struct {
	index map[UserAttribute]int
	max   int
}

// BuildIota indexes every attribute in attrs, restarting the counter at 0
// whenever a new (auth, label) bucket is first seen.
func BuildIota(attrs []UserAttribute) *Iota {
	counters := make(map[bucketKey]int)
	index := make(map[UserAttribute]int, len(attrs))
	max := -1

	for _, a := range attrs {
		if _, seen := index[a]; seen {
			continue
		}
		key := bucketKey{a.Auth, a.Label}
		i := counters[key]
		index[a] = i
		counters[key] = i + 1
		if i > max {
			max = i
		}
	}

	return &Iota{index: index, max: max}
}

// Get returns the index assigned to attr, and whether it was found.
func (io *Iota) Get(attr UserAttribute) (int, bool) {
	i, ok := io.index[attr]
	return i, ok
}

// Max returns the largest index assigned across every bucket, or -1 if no
// attributes were indexed.
func (io *Iota) Max() int {
	return io.max
}

// Attrs returns every attribute this index was built from. KeyGen and
// Decrypt use it to recover the user's attribute set from an Iota alone,
// since the stable external Decrypt signature carries an Iota but not a
// separate attribute list.
func (io *Iota) Attrs() []UserAttribute {
	out := make([]UserAttribute, 0, len(io.index))
	for a := range io.index {
		out = append(out, a)
	}
	return out
}
