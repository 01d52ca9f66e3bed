package types

import (
	"errors"
	"testing"
)

func TestRequest_ToJSON(t *testing.T) {
	data, err := Request{Pattern: "a+", Text: "baaab"}.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	if want := `{"pattern":"a+","text":"baaab"}`; string(data) != want {
		t.Errorf("ToJSON() = %s, want %s", data, want)
	}
}

func TestResultFromJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Result
		wantErr bool
	}{
		{name: "match", input: `{"is_match":true,"error":""}`, want: Result{IsMatch: true}},
		{name: "failure", input: `{"is_match":false,"error":"bad"}`, want: Result{Error: "bad"}},
		{name: "garbage", input: `nope`, wantErr: true},
		{name: "empty", input: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResultFromJSON([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResultFromJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResultFromJSON() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResult_ToOutcome(t *testing.T) {
	tests := []struct {
		name        string
		result      Result
		wantMatch   bool
		wantRuntime bool
	}{
		{name: "match", result: Matched(true), wantMatch: true},
		{name: "no match", result: Matched(false)},
		{name: "failure", result: Failed("invalid regular expression: x"), wantRuntime: true},
		{name: "inconsistent document", result: Result{IsMatch: true, Error: "oops"}, wantRuntime: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.result.ToOutcome()
			if got.IsMatch != tt.wantMatch {
				t.Errorf("IsMatch = %v, want %v", got.IsMatch, tt.wantMatch)
			}
			if errors.Is(got.Err, ErrRuntime) != tt.wantRuntime {
				t.Errorf("Err = %v, want runtime error: %v", got.Err, tt.wantRuntime)
			}
			if tt.wantRuntime && got.Err.Error() != "runtime error: "+tt.result.Error {
				t.Errorf("Err = %q", got.Err)
			}
		})
	}
}
