package httpserver

import (
	"net/url"
	"testing"

	"storeratings/internal/domain"
)

func TestBuildUserListFilters(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		filters, err := buildUserListFilters(url.Values{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if filters.Query != nil || filters.Role != nil {
			t.Fatalf("expected zero filters, got %+v", filters)
		}
	})

	t.Run("query and role", func(t *testing.T) {
		values := url.Values{"q": {" alice "}, "role": {"ADMIN"}, "sortBy": {"email"}, "sortOrder": {"desc"}}
		filters, err := buildUserListFilters(values)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if filters.Query == nil || *filters.Query != "alice" {
			t.Fatalf("query = %v, want trimmed alice", filters.Query)
		}
		if filters.Role == nil || *filters.Role != domain.RoleAdmin {
			t.Fatalf("role = %v, want ADMIN", filters.Role)
		}
		if filters.SortBy != "email" || filters.SortOrder != "desc" {
			t.Fatalf("sort = %q/%q, want email/desc", filters.SortBy, filters.SortOrder)
		}
	})

	t.Run("invalid role", func(t *testing.T) {
		if _, err := buildUserListFilters(url.Values{"role": {"WIZARD"}}); err == nil {
			t.Fatal("expected error for unknown role")
		}
	})

	t.Run("lowercase role rejected", func(t *testing.T) {
		if _, err := buildUserListFilters(url.Values{"role": {"admin"}}); err == nil {
			t.Fatal("expected error for lowercase role")
		}
	})
}

func FuzzBuildUserListFilters(f *testing.F) {
	f.Add("q=alice&role=USER")
	f.Add("role=ADMIN&sortBy=name&sortOrder=asc")
	f.Add("q=%20&role=")
	f.Add("sortBy=;DROP TABLE users;--&sortOrder=desc")
	f.Add("role=OWNER&q=store")

	f.Fuzz(func(t *testing.T, rawQuery string) {
		values, err := url.ParseQuery(rawQuery)
		if err != nil {
			t.Skip()
		}

		filters, err := buildUserListFilters(values)
		if err != nil {
			// Only an unparseable role is rejected.
			if _, ok := domain.ParseRole(values.Get("role")); ok {
				t.Fatalf("rejected valid role %q: %v", values.Get("role"), err)
			}
			return
		}
		if filters.Role != nil && !filters.Role.IsValid() {
			t.Fatalf("accepted invalid role %q", *filters.Role)
		}
		if filters.Query != nil && *filters.Query == "" {
			t.Fatal("query filter accepted empty string")
		}
	})
}
