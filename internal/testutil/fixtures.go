package testutil

import "github.com/roach88/hackerstories/internal/story"

// Stories returns two sample records, titled React and Redux.
func Stories() []story.Record {
	return []story.Record{
		{
			Title:        "React",
			URL:          "https://reactjs.org/",
			Author:       "Jordan Walke",
			CommentCount: 3,
			Points:       4,
			ID:           "0",
		},
		{
			Title:        "Redux",
			URL:          "https://redux.js.org/",
			Author:       "Dan Abramov, Andrew Clark",
			CommentCount: 2,
			Points:       5,
			ID:           "1",
		},
	}
}
