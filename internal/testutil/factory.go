package testutil

import (
	"fmt"
	"strings"

	"github.com/andrebq/taskbox/store"
	"github.com/brianvoe/gofakeit/v7"
)

type (
	FakeAccount struct {
		Name     string
		Email    string
		Password string
	}
)

// NewFaker returns a deterministic faker for the given seed.
func NewFaker(seed uint64) *gofakeit.Faker {
	return gofakeit.New(seed)
}

func Account(f *gofakeit.Faker) FakeAccount {
	return FakeAccount{
		Name:     f.Name(),
		Email:    f.Email(),
		Password: f.Password(true, true, true, false, false, 12),
	}
}

func TaskInput(f *gofakeit.Faker) store.TaskInput {
	return store.TaskInput{
		Title:     fmt.Sprintf("%v %v %v", f.Verb(), f.Adjective(), f.Noun()),
		Body:      words(f, 12),
		Completed: f.Bool(),
	}
}

func words(f *gofakeit.Faker, n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = f.Word()
	}
	return strings.Join(out, " ")
}
