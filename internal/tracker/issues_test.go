package tracker

import (
	"reflect"
	"testing"

	"github.com/adw-sh/adw/internal/types"
)

func TestExtractImageURLsDedupesAndPreservesOrder(t *testing.T) {
	issue := types.Issue{
		Body: `Here's the bug:
<img src="https://user-images.githubusercontent.com/1/a.png" alt="a">
![second](https://user-images.githubusercontent.com/1/b.png)`,
		Comments: []types.Comment{
			{Body: `![again](https://user-images.githubusercontent.com/1/a.png)`},
			{Body: `<img src='https://user-images.githubusercontent.com/1/c.png'>`},
		},
	}

	got := ExtractImageURLs(issue)
	want := []string{
		"https://user-images.githubusercontent.com/1/a.png",
		"https://user-images.githubusercontent.com/1/b.png",
		"https://user-images.githubusercontent.com/1/c.png",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractImageURLs = %v, want %v", got, want)
	}
}

func TestExtractImageURLsNoImages(t *testing.T) {
	issue := types.Issue{Body: "just a plain bug report, no screenshots"}
	if got := ExtractImageURLs(issue); got != nil {
		t.Errorf("ExtractImageURLs = %v, want nil", got)
	}
}
