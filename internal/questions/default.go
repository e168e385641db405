package questions

// #region default-bank

var defaultTemplates = map[Bucket][]struct {
	text     string
	category Category
}{
	BucketNone: {
		{"and what would you like to have happen?", CategoryIntention},
		{"and is there anything else?", CategoryAttributes},
		{"and what happens next?", CategorySequence},
		{"and then what happens?", CategorySequence},
		{"and what needs to happen?", CategoryNecessaryConditions},
		{"and is there anything else that needs to happen?", CategoryNecessaryConditions},
	},
	BucketGeneric: {
		{"and is there anything else about that?", CategoryAttributes},
		{"and whereabouts {MODAL} you feel {PLURAL_OBJECT}?", CategoryLocation},
		{"and what {COPULA} {PLURAL_PRONOUN} like?", CategoryMetaphor},
		{"and what happens just before {PLURAL_OBJECT}?", CategorySequence},
		{"and where could {PLURAL_PRONOUN} come from?", CategorySource},
		{"and where would {PLURAL_PRONOUN} come from?", CategorySource},
		{"and if {PLURAL_PRONOUN} {PLURAL_VERB}, what would you like to happen now?", CategoryIntention},
		{"and what needs to happen for {PLURAL_DEMONSTRATIVE}?", CategoryNecessaryConditions},
		{"and {PLURAL_DEMONSTRATIVE} {COPULA} like what?", CategoryMetaphor},
	},
	BucketSingleItem: {
		{"and what kind of {ITEM1} {COPULA} {PLURAL_PRONOUN}?", CategoryAttributes},
		{"and what kind of {ITEM1} {COPULA} {PLURAL_DEMONSTRATIVE} {ITEM1}?", CategoryAttributes},
		{"and what kind of {ITEM1}?", CategoryAttributes},
		{"and is there anything else about {ITEM1}?", CategoryAttributes},
		{"and where {COPULA} {ITEM1}?", CategoryLocation},
		{"and whereabouts {COPULA} {ITEM1}?", CategoryLocation},
		{"and {ITEM1} {COPULA} like what?", CategoryMetaphor},
		{"and that's {ITEM1} like what?", CategoryMetaphor},
		{"and when {ITEM1} {PLURAL_VERB}, what happens next?", CategorySequence},
		{"and what happens after {ITEM1}?", CategorySequence},
		{"and what happens just before {ITEM1}?", CategorySequence},
		{"and where could {ITEM1} come from?", CategorySource},
		{"and what needs to happen for {ITEM1}?", CategoryNecessaryConditions},
		{"and can {ITEM1} happen?", CategoryNecessaryConditions},
		{"and when {ITEM1}, {PLURAL_DEMONSTRATIVE} {COPULA} like what?", CategoryMetaphor},
	},
	BucketTwoItem: {
		{"and what is the relationship between {ITEM1} and {ITEM2}?", CategoryRelationship},
		{"and what is the relationship between {ITEM2} and {ITEM1}?", CategoryRelationship},
		{"and when {ITEM1} {PLURAL_VERB}, what happens to {ITEM2}?", CategoryRelationship},
		{"and when {ITEM2} {PLURAL_VERB}, what happens to {ITEM1}?", CategoryRelationship},
		{"and when {ITEM1}, what happens to {ITEM2}?", CategoryRelationship},
	},
	BucketNamedEntity: {
		{"and what would {ITEM1} like to have happen?", CategoryIntention},
	},
}

// DefaultBank returns the built-in Clean Language question bank. It panics
// if the built-in templates are malformed, which a unit test guards.
func DefaultBank() *Bank {
	buckets := make(map[Bucket][]Template, len(defaultTemplates))
	for bucket, entries := range defaultTemplates {
		for _, e := range entries {
			buckets[bucket] = append(buckets[bucket], MustParse(e.text, e.category))
		}
	}
	b, err := NewBank(buckets)
	if err != nil {
		panic(err)
	}
	return b
}

// #endregion default-bank
