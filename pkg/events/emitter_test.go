// SPDX-License-Identifier: MPL-2.0

package events

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestEmitterDispatchOrder(t *testing.T) {
	t.Parallel()

	em := NewEmitter()
	var got []string
	em.Subscribe(ListenerFunc(func(e Event) { got = append(got, "first:"+e.Name()) }))
	em.Subscribe(ListenerFunc(func(e Event) { got = append(got, "second:"+e.Name()) }))

	em.Emit(BeforeRequire{ModuleID: "dotenv"})

	want := []string{"first:beforeRequire", "second:beforeRequire"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("dispatch = %v, want %v", got, want)
	}
}

func TestEmitterUnsubscribe(t *testing.T) {
	t.Parallel()

	em := NewEmitter()
	rec := &Recorder{}
	unsubscribe := em.Subscribe(rec)

	em.Emit(Require{ModuleID: "a"})
	unsubscribe()
	em.Emit(Require{ModuleID: "b"})
	unsubscribe()

	if n := len(rec.Events()); n != 1 {
		t.Fatalf("recorded %d events, want 1", n)
	}
}

func TestNilEmitterDropsEvents(t *testing.T) {
	t.Parallel()

	var em *Emitter
	em.Emit(ConfigCycle{Config: "x", Path: "/x"})
}

func TestChannelDropsWhenFull(t *testing.T) {
	t.Parallel()

	em := NewEmitter()
	ch, l := Channel(1)
	em.Subscribe(l)

	em.Emit(BeforeRequire{ModuleID: "a"})
	em.Emit(BeforeRequire{ModuleID: "b"})

	first := <-ch
	if ev, ok := first.(BeforeRequire); !ok || ev.ModuleID != "a" {
		t.Errorf("first event = %#v, want BeforeRequire{a}", first)
	}
	select {
	case e := <-ch:
		t.Errorf("unexpected second event %#v", e)
	default:
	}
}

func TestRecorderNames(t *testing.T) {
	t.Parallel()

	rec := &Recorder{}
	for _, e := range []Event{
		BeforeRequire{}, Require{}, RequireFail{}, Respawn{},
		LoaderSuccess{}, LoaderFailure{}, ConfigMiss{}, ConfigFailure{}, ConfigCycle{},
	} {
		rec.Notify(e)
	}

	want := []string{
		NameBeforeRequire, NameRequire, NameRequireFail, NameRespawn,
		NameLoaderSuccess, NameLoaderFailure, NameConfigMiss, NameConfigFailure, NameConfigCycle,
	}
	if got := rec.Names(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestLogListenerReportsFailures(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	l := LogListener(logger)

	l.Notify(ConfigFailure{Config: "app", Path: "/p/base.json", Extends: true, Err: errors.New("boom")})
	l.Notify(ConfigCycle{Config: "app", Path: "/p/a.json"})

	out := buf.String()
	for _, want := range []string{"config could not be loaded", "/p/base.json", "boom", "extends cycle skipped"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigEventsCarryConfigName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		event    Event
		wantName string
	}{
		{ConfigMiss{Config: "tasks", Ref: "./tasks"}, NameConfigMiss},
		{ConfigFailure{Config: "tasks", Path: "/p/tasks.json"}, NameConfigFailure},
		{ConfigCycle{Config: "tasks", Path: "/p/tasks.json"}, NameConfigCycle},
	}

	var buf bytes.Buffer
	l := LogListener(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
	for _, tt := range tests {
		if got := tt.event.Name(); got != tt.wantName {
			t.Errorf("%T.Name() = %q, want %q", tt.event, got, tt.wantName)
		}
		buf.Reset()
		l.Notify(tt.event)
		if !strings.Contains(buf.String(), "config=tasks") {
			t.Errorf("log of %T lacks the config name:\n%s", tt.event, buf.String())
		}
	}
}
