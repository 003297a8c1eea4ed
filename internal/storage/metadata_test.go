package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrPathCollision_ErrorNamesBothPathsAndRemediation(t *testing.T) {
	err := &ErrPathCollision{
		IndexName:     "myproject",
		ExistingPath:  "/home/user/project-a",
		RequestedPath: "/home/user/project-b",
	}

	msg := err.Error()
	assert.Contains(t, msg, "/home/user/project-a")
	assert.Contains(t, msg, "/home/user/project-b")
	assert.Contains(t, msg, "indexName")
	assert.Contains(t, msg, "--index-name")
}

func TestErrPathCollision_Suggestion(t *testing.T) {
	err := &ErrPathCollision{
		IndexName:     "myproject",
		ExistingPath:  "/home/user/project-a",
		RequestedPath: "/home/user/project-b",
	}

	s := err.Suggestion()
	assert.Contains(t, s, "/home/user/project-a")
	assert.Contains(t, s, "/home/user/project-b")
	assert.Contains(t, s, "--index-name")
}
