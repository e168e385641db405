package questions

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// #region buckets

// Bucket groups templates by how many items they need.
type Bucket string

const (
	BucketNone        Bucket = "NONE"
	BucketGeneric     Bucket = "GENERIC"
	BucketSingleItem  Bucket = "SINGLE_ITEM"
	BucketTwoItem     Bucket = "TWO_ITEM"
	BucketNamedEntity Bucket = "NAMED_ENTITY"
)

// AllBuckets lists the buckets a bank must populate.
var AllBuckets = []Bucket{BucketNone, BucketGeneric, BucketSingleItem, BucketTwoItem, BucketNamedEntity}

// #endregion buckets

// #region bank

// Bank is a validated set of templates per bucket.
type Bank struct {
	buckets map[Bucket][]Template
}

// NewBank validates buckets and wraps them in a Bank.
func NewBank(buckets map[Bucket][]Template) (*Bank, error) {
	b := &Bank{buckets: buckets}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Templates returns the templates of one bucket.
func (b *Bank) Templates(bucket Bucket) []Template {
	return b.buckets[bucket]
}

// Size returns the total number of templates.
func (b *Bank) Size() int {
	n := 0
	for _, ts := range b.buckets {
		n += len(ts)
	}
	return n
}

// Validate checks every template against its bucket's placeholder rules:
// SINGLE_ITEM, TWO_ITEM and NAMED_ENTITY need ITEM1, TWO_ITEM also needs
// ITEM2, SINGLE_ITEM and NAMED_ENTITY must not use ITEM2, and NONE and
// GENERIC use no items at all. NONE templates carry no placeholders.
func (b *Bank) Validate() error {
	for _, bucket := range AllBuckets {
		ts := b.buckets[bucket]
		if len(ts) == 0 {
			return fmt.Errorf("%w: bucket %s is empty", ErrMalformedTemplate, bucket)
		}
		for _, t := range ts {
			if err := checkTemplate(bucket, t); err != nil {
				return err
			}
		}
	}
	for bucket := range b.buckets {
		if !knownBucket(bucket) {
			return fmt.Errorf("%w: unknown bucket %q", ErrMalformedTemplate, bucket)
		}
	}
	return nil
}

func checkTemplate(bucket Bucket, t Template) error {
	fail := func(reason string) error {
		return fmt.Errorf("%w: %s template %q %s", ErrMalformedTemplate, bucket, t.Text, reason)
	}
	switch bucket {
	case BucketNone:
		if len(t.Placeholders()) > 0 {
			return fail("must not contain placeholders")
		}
	case BucketGeneric:
		if t.Has(Item1) || t.Has(Item2) {
			return fail("must not reference items")
		}
	case BucketSingleItem, BucketNamedEntity:
		if !t.Has(Item1) {
			return fail("is missing ITEM1")
		}
		if t.Has(Item2) {
			return fail("must not reference ITEM2")
		}
	case BucketTwoItem:
		if !t.Has(Item1) || !t.Has(Item2) {
			return fail("must contain ITEM1 and ITEM2")
		}
	}
	return nil
}

func knownBucket(b Bucket) bool {
	for _, k := range AllBuckets {
		if k == b {
			return true
		}
	}
	return false
}

// #endregion bank

// #region yaml

type templateEntry struct {
	Text     string `yaml:"text"`
	Category string `yaml:"category"`
}

type bankFile struct {
	Buckets map[string][]templateEntry `yaml:"buckets"`
}

// LoadBank reads a YAML bank file of the form
//
//	buckets:
//	  SINGLE_ITEM:
//	    - text: "and what kind of {ITEM1} {COPULA} {PLURAL_PRONOUN}?"
//	      category: attributes
//
// and validates it. The file replaces the built-in bank wholesale.
func LoadBank(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank %s: %w", path, err)
	}
	return ParseBank(data)
}

// ParseBank decodes and validates YAML bank content.
func ParseBank(data []byte) (*Bank, error) {
	var f bankFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode bank: %w", err)
	}
	buckets := make(map[Bucket][]Template, len(f.Buckets))
	for name, entries := range f.Buckets {
		for _, e := range entries {
			t, err := Parse(e.Text, Category(e.Category))
			if err != nil {
				return nil, err
			}
			buckets[Bucket(name)] = append(buckets[Bucket(name)], t)
		}
	}
	return NewBank(buckets)
}

// #endregion yaml
