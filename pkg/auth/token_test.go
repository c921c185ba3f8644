package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestTokenProvider_Token(t *testing.T) {
	tests := []struct {
		name     string
		cred     Credential
		want     string
		wantAuth bool
	}{
		{
			name:     "no credential",
			cred:     Credential{},
			want:     "",
			wantAuth: false,
		},
		{
			name:     "static token",
			cred:     Static("static-token"),
			want:     "static-token",
			wantAuth: true,
		},
		{
			name:     "empty static token",
			cred:     Static(""),
			want:     "",
			wantAuth: false,
		},
		{
			name: "dynamic token",
			cred: Dynamic(func(ctx context.Context) (string, error) {
				return "dynamic-token", nil
			}),
			want:     "dynamic-token",
			wantAuth: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewTokenProvider(tt.cred)

			got, err := p.Token(context.Background())
			if err != nil {
				t.Fatalf("Token() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Token() = %q, want %q", got, tt.want)
			}
			if p.HasAuth() != tt.wantAuth {
				t.Errorf("HasAuth() = %v, want %v", p.HasAuth(), tt.wantAuth)
			}
		})
	}
}

func TestTokenProvider_DynamicCalledEveryTime(t *testing.T) {
	calls := 0
	p := NewTokenProvider(Dynamic(func(ctx context.Context) (string, error) {
		calls++
		return "token", nil
	}))

	for i := 0; i < 3; i++ {
		if _, err := p.Token(context.Background()); err != nil {
			t.Fatalf("Token() error = %v", err)
		}
	}

	if calls != 3 {
		t.Errorf("token source called %d times, want 3", calls)
	}
}

func TestTokenProvider_DynamicError(t *testing.T) {
	sourceErr := errors.New("refresh failed")
	p := NewTokenProvider(Dynamic(func(ctx context.Context) (string, error) {
		return "", sourceErr
	}))

	_, err := p.Token(context.Background())
	if !errors.Is(err, sourceErr) {
		t.Errorf("Token() error = %v, want %v", err, sourceErr)
	}
}

func TestTokenProvider_SetTokenDropsSource(t *testing.T) {
	calls := 0
	p := NewTokenProvider(Dynamic(func(ctx context.Context) (string, error) {
		calls++
		return "dynamic", nil
	}))

	p.SetToken("refreshed")

	got, err := p.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if got != "refreshed" {
		t.Errorf("Token() = %q, want %q", got, "refreshed")
	}
	if calls != 0 {
		t.Errorf("dynamic source still consulted after SetToken (%d calls)", calls)
	}
	if !p.HasAuth() {
		t.Error("HasAuth() = false after SetToken")
	}
}

func TestTokenProvider_ConcurrentSetToken(t *testing.T) {
	p := NewTokenProvider(Static("initial"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			p.SetToken("next")
		}()
		go func() {
			defer wg.Done()
			if _, err := p.Token(context.Background()); err != nil {
				t.Errorf("Token() error = %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := p.Token(context.Background())
	if got != "next" {
		t.Errorf("Token() = %q after concurrent writes, want %q", got, "next")
	}
}
