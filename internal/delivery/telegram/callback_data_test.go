package telegram

import "testing"

func TestParseCallbackDataRoundTrip(t *testing.T) {
	cases := []struct {
		raw       string
		action    string
		subAction string
		param     int
		hasParam  bool
	}{
		{buildQuizPageCallback(17), actionQuiz, quizPage, 17, true},
		{buildQuizAnswerCallback(2), actionQuiz, quizAnswer, 2, true},
		{buildQuizStartCallback(), actionQuiz, quizStart, 0, false},
		{buildQuizStopCallback(), actionQuiz, quizStop, 0, false},
	}

	for _, tc := range cases {
		cd := parseCallbackData(tc.raw)
		if cd.Action != tc.action {
			t.Fatalf("%q: action = %q, want %q", tc.raw, cd.Action, tc.action)
		}
		if len(cd.Params) == 0 || cd.Params[0] != tc.subAction {
			t.Fatalf("%q: sub-action = %v, want %q", tc.raw, cd.Params, tc.subAction)
		}

		got, ok := cd.intParam(1)
		if ok != tc.hasParam {
			t.Fatalf("%q: intParam(1) ok = %v, want %v", tc.raw, ok, tc.hasParam)
		}
		if ok && got != tc.param {
			t.Fatalf("%q: intParam(1) = %d, want %d", tc.raw, got, tc.param)
		}
	}
}

func TestParseCallbackDataMalformed(t *testing.T) {
	cd := parseCallbackData("quiz:answer:notanumber")
	if _, ok := cd.intParam(1); ok {
		t.Fatal("non-numeric parameter must not parse")
	}

	cd = parseCallbackData("")
	if cd.Action != "" || len(cd.Params) != 0 {
		t.Fatalf("empty data parsed to %+v", cd)
	}
}

func TestPreviewTextTruncation(t *testing.T) {
	short := "قل هو الله أحد"
	if got := previewText(short); got != short {
		t.Fatalf("short text modified: %q", got)
	}

	long := ""
	for i := 0; i < optionPreviewLen+10; i++ {
		long += "ا"
	}
	got := previewText(long)
	if runes := []rune(got); len(runes) != optionPreviewLen+1 { // preview plus ellipsis
		t.Fatalf("truncated preview has %d runes", len(runes))
	}
}
