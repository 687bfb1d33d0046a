package panels_test

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"testing"

	"acbfe/internal/panels"
	"acbfe/internal/testsupport"
)

type stubExecutor struct {
	binary  string
	args    []string
	lines   []string
	err     error
	sawFile bool
}

func (s *stubExecutor) Run(_ context.Context, binary string, args []string, onStdout func(string)) error {
	s.binary = binary
	s.args = append([]string(nil), args...)
	if len(args) == 2 {
		_, err := os.Stat(args[1])
		s.sawFile = err == nil
	}
	for _, line := range s.lines {
		onStdout(line)
	}
	return s.err
}

const kumikoJSON = `[
  {
    "filename": "page.png",
    "size": [400, 300],
    "panels": [[10, 10, 180, 130], [210, 10, 180, 130], [10, 160, 380, 130]]
  }
]`

func TestKumikoDetect(t *testing.T) {
	stub := &stubExecutor{lines: []string{kumikoJSON}}
	k := panels.NewKumiko(panels.WithExecutor(stub), panels.WithBinary("/opt/kumiko"))

	got, err := k.Detect(context.Background(), testsupport.Image(40, 30, color.White), "")
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if stub.binary != "/opt/kumiko" || len(stub.args) != 2 || stub.args[0] != "-i" {
		t.Fatalf("unexpected invocation %s %v", stub.binary, stub.args)
	}
	if !stub.sawFile {
		t.Fatalf("expected a temporary page file to exist during the run")
	}
	if len(got) != 3 || got[1].Rect != image.Rect(210, 10, 390, 140) {
		t.Fatalf("panels = %+v", got)
	}
}

func TestKumikoErrors(t *testing.T) {
	stub := &stubExecutor{err: errors.New("exit status 1")}
	if _, err := panels.NewKumiko(panels.WithExecutor(stub)).Detect(context.Background(), nil, "/tmp/page.png"); err == nil {
		t.Fatalf("expected executor error")
	}
	if _, err := panels.ParseKumiko([]byte(`[{"panels": [[1, 2, 3]]}]`)); err == nil {
		t.Fatalf("expected error for short panel")
	}
	got, err := panels.ParseKumiko([]byte(`[]`))
	if err != nil || len(got) != 0 {
		t.Fatalf("empty report = %v, %v", got, err)
	}
}

func TestOrder(t *testing.T) {
	a := panels.Panel{Rect: image.Rect(0, 0, 100, 100)}
	b := panels.Panel{Rect: image.Rect(110, 5, 200, 100)}
	c := panels.Panel{Rect: image.Rect(0, 120, 200, 200)}
	in := []panels.Panel{c, b, a}

	ltr := panels.Order(in, "LTR")
	if ltr[0] != a || ltr[1] != b || ltr[2] != c {
		t.Fatalf("LTR order = %+v", ltr)
	}
	rtl := panels.Order(in, "rtl")
	if rtl[0] != b || rtl[1] != a || rtl[2] != c {
		t.Fatalf("RTL order = %+v", rtl)
	}
	if in[0] != c {
		t.Fatalf("Order modified its input")
	}
}

func TestFilterAndFrames(t *testing.T) {
	in := []panels.Panel{
		{Rect: image.Rect(0, 0, 10, 10)},
		{Rect: image.Rect(0, 0, 2, 2)},
	}
	kept := panels.Filter(in, 50)
	if len(kept) != 1 {
		t.Fatalf("Filter kept %d panels, want 1", len(kept))
	}
	frames := panels.ToFrames(kept)
	if got := frames[0].Points.String(); got != "0,0 10,0 10,10 0,10" {
		t.Fatalf("frame = %s", got)
	}
}
