package di

import "testing"

type widget struct {
	name string
}

type notifier interface {
	Notify(string)
}

func TestGetTokenBuildsLazilyAndMemoizes(t *testing.T) {
	c := NewContainer()
	token := NewToken[*widget]("test:widget")

	builds := 0
	RegisterToken(c, token, func(sr ServiceRegistry) *widget {
		builds++
		return &widget{name: "w"}
	})
	if builds != 0 {
		t.Fatalf("factory ran %d times before first Get, want 0", builds)
	}

	first := GetToken(c, token)
	second := GetToken(c, token)
	if first != second {
		t.Error("resolved instances differ, want the memoized service")
	}
	if builds != 1 {
		t.Errorf("factory ran %d times, want 1", builds)
	}
}

func TestGetTokenResolvesAbsentOptionalServiceToZero(t *testing.T) {
	c := NewContainer()
	token := NewToken[notifier]("test:notifier")

	RegisterToken(c, token, func(sr ServiceRegistry) notifier {
		return nil
	})

	got := GetToken(c, token)
	if got != nil {
		t.Errorf("absent optional service resolved to %v, want nil", got)
	}
}

func TestGetUnregisteredPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Get of an unregistered service should panic")
		}
	}()
	NewContainer().Get("test:missing")
}
