package gotcount

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	gcerrors "github.com/gotcount/gotcount/gotcount/errors"
	"github.com/gotcount/gotcount/gotcount/value"
)

// bucketFile is the YAML layout of a bucket set:
//
//	dimension: age
//	strict_dates: false
//	buckets:
//	  - "Children and Teenagers:[0,19]"
//	  - "Adults:[20,64]"
type bucketFile struct {
	Dimension   string   `yaml:"dimension"`
	StrictDates bool     `yaml:"strict_dates"`
	Buckets     []string `yaml:"buckets"`
}

// BucketSet is an ordered list of uniquely named buckets. Dimension, when
// set, names the record field the buckets classify.
type BucketSet struct {
	Dimension string
	buckets   []Bucket
}

// LoadBucketSet reads a YAML bucket set.
func LoadBucketSet(r io.Reader) (*BucketSet, error) {
	var f bucketFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if err == io.EOF {
			return nil, gcerrors.SchemaError("bucket set is empty")
		}
		return nil, gcerrors.Wrap(gcerrors.ErrSchema, "parse bucket yaml", err)
	}
	set, err := ParseBucketSet(f.Buckets, ParseOptions{StrictDates: f.StrictDates})
	if err != nil {
		return nil, err
	}
	set.Dimension = f.Dimension
	return set, nil
}

// ParseBucketSet parses each definition with ParseBucket.
func ParseBucketSet(defs []string, opts ParseOptions) (*BucketSet, error) {
	if len(defs) == 0 {
		return nil, gcerrors.SchemaError("bucket set has no buckets")
	}
	set := &BucketSet{buckets: make([]Bucket, 0, len(defs))}
	seen := make(map[string]bool, len(defs))
	for i, def := range defs {
		b, err := ParseBucketWithOptions(strings.TrimSpace(def), opts)
		if err != nil {
			return nil, gcerrors.Wrap(gcerrors.ErrQueryParse, fmt.Sprintf("bucket %d", i), err)
		}
		if seen[b.Name] {
			return nil, gcerrors.Duplicate(-1, b.Name)
		}
		seen[b.Name] = true
		set.buckets = append(set.buckets, b)
	}
	return set, nil
}

func (s *BucketSet) Len() int { return len(s.buckets) }

func (s *BucketSet) Buckets() []Bucket {
	return append([]Bucket(nil), s.buckets...)
}

// Names returns the bucket names in definition order.
func (s *BucketSet) Names() []string {
	names := make([]string, len(s.buckets))
	for i, b := range s.buckets {
		names[i] = b.Name
	}
	return names
}

// Classify returns the names of all buckets accepting v, in definition
// order. Buckets over another kind of value are skipped; it is an error
// only when no bucket can test v at all.
func (s *BucketSet) Classify(v value.Value) ([]string, error) {
	var (
		names  []string
		tested bool
		last   error
	)
	for _, b := range s.buckets {
		ok, err := b.Test(v)
		if err != nil {
			if gcerrors.IsCode(err, gcerrors.ErrTypeMismatch) || gcerrors.IsCode(err, gcerrors.ErrIncompatibleType) {
				last = err
				continue
			}
			return nil, err
		}
		tested = true
		if ok {
			names = append(names, b.Name)
		}
	}
	if !tested && last != nil {
		return nil, last
	}
	return names, nil
}
