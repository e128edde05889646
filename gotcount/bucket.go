package gotcount

import (
	"github.com/gotcount/gotcount/gotcount/check"
	"github.com/gotcount/gotcount/gotcount/query"
	"github.com/gotcount/gotcount/gotcount/value"
)

// Bucket is a single named check, used to classify values into groups
// such as "Children and Teenagers:[0,19]".
type Bucket struct {
	Name  string
	Check check.Check
}

// ParseBucket parses exactly one name:condition pair. Names may contain
// spaces and escaped metacharacters.
func ParseBucket(text string) (Bucket, error) {
	return ParseBucketWithOptions(text, ParseOptions{})
}

func ParseBucketWithOptions(text string, opts ParseOptions) (Bucket, error) {
	t, err := query.ParseBucket(text, query.Options{StrictDates: opts.StrictDates})
	if err != nil {
		return Bucket{}, err
	}
	return Bucket{Name: t.Dimension, Check: t.Check}, nil
}

func (b Bucket) Test(v value.Value) (bool, error) {
	ok, err := b.Check.Test(v)
	if err != nil {
		return false, withDimension(err, b.Name)
	}
	return ok, nil
}

func (b Bucket) String() string {
	return value.EscapeText(b.Name) + ":" + b.Check.String()
}
