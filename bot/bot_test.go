package bot

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mmdatafocus/tfd_bot/config"
	"github.com/mmdatafocus/tfd_bot/tfdapi"
	"github.com/sirupsen/logrus"
	"go.uber.org/goleak"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testSettings(concurrent bool) config.Settings {
	return config.Settings{
		APIKey:        "test-key",
		CommandPrefix: "!",
		HTTPTimeout:   5 * time.Second,
		Aliases:       config.NewAliases(map[string]string{"SOAD": "SOAD__#5203"}),
		Features:      config.FeatureFlags{ConcurrentFetch: concurrent},
	}
}

func strPtr(s string) *string { return &s }

type fakePlayers struct {
	calls atomic.Int32
	ouid  string
}

func (f *fakePlayers) FullName(name string) string { return name }

func (f *fakePlayers) Resolve(ctx context.Context, name string) (tfdapi.Player, error) {
	f.calls.Add(1)
	if f.ouid == "" {
		return tfdapi.Player{Name: name}, tfdapi.ErrPlayerNotFound
	}
	return tfdapi.Player{Name: name, OUID: f.ouid}, nil
}

type fakeEquipment struct {
	calls       atomic.Int32
	noReactor   bool
	noWeapons   bool
	noComponent bool
}

func (f *fakeEquipment) FetchDescendant(ctx context.Context, ouid string) (tfdapi.DescendantInfo, bool) {
	f.calls.Add(1)
	return tfdapi.DescendantInfo{
		DescendantID: "1",
		Level:        tfdapi.Int(40),
		Modules:      []tfdapi.EquippedModule{{ID: "5", EnchantLevel: tfdapi.Int(2)}},
	}, true
}

func (f *fakeEquipment) FetchWeapons(ctx context.Context, ouid string) (tfdapi.WeaponInfo, bool) {
	f.calls.Add(1)
	if f.noWeapons {
		return tfdapi.WeaponInfo{}, false
	}
	return tfdapi.WeaponInfo{Weapons: []tfdapi.EquippedWeapon{{ID: "w1", PerkAbilityEnchantLevel: tfdapi.Int(2)}}}, true
}

func (f *fakeEquipment) FetchReactor(ctx context.Context, ouid string) (tfdapi.ReactorInfo, bool) {
	f.calls.Add(1)
	if f.noReactor {
		return tfdapi.ReactorInfo{}, false
	}
	return tfdapi.ReactorInfo{ID: "r1"}, true
}

func (f *fakeEquipment) FetchExternalComponents(ctx context.Context, ouid string) (tfdapi.ExternalComponentInfo, bool) {
	f.calls.Add(1)
	if f.noComponent {
		return tfdapi.ExternalComponentInfo{}, false
	}
	return tfdapi.ExternalComponentInfo{Components: []tfdapi.EquippedExternalComponent{{
		ID:              "c1",
		AdditionalStats: []tfdapi.AdditionalStat{{Name: "DEF", Value: "1200"}},
	}}}, true
}

type fakeCatalogs struct{}

func (fakeCatalogs) Descendants(ctx context.Context) (tfdapi.Index[tfdapi.DescendantMeta], bool) {
	return tfdapi.NewIndex([]tfdapi.DescendantMeta{{ID: "1", Name: strPtr("Ajax")}}), true
}

func (fakeCatalogs) Modules(ctx context.Context) (tfdapi.Index[tfdapi.ModuleMeta], bool) {
	return tfdapi.NewIndex([]tfdapi.ModuleMeta{{
		ID:         "5",
		Name:       strPtr("Max HP"),
		SocketType: strPtr("Impact"),
		Stats:      []tfdapi.ModuleStat{{Level: tfdapi.Int(2), Value: "Max HP 10%"}},
	}}), true
}

func (fakeCatalogs) Weapons(ctx context.Context) (tfdapi.Index[tfdapi.WeaponMeta], bool) {
	return tfdapi.NewIndex([]tfdapi.WeaponMeta{{ID: "w1", Name: strPtr("Thunder Cage")}}), true
}

func (fakeCatalogs) Reactors(ctx context.Context) (tfdapi.Index[tfdapi.ReactorMeta], bool) {
	return tfdapi.NewIndex([]tfdapi.ReactorMeta{{ID: "r1", Name: strPtr("R"), OptimizedConditionType: strPtr("Granite")}}), true
}

func (fakeCatalogs) ExternalComponents(ctx context.Context) (tfdapi.Index[tfdapi.ExternalComponentMeta], bool) {
	return tfdapi.NewIndex([]tfdapi.ExternalComponentMeta{{ID: "c1", Name: strPtr("Helmet")}}), true
}

func newFakeBot(concurrent bool, players *fakePlayers, equipment *fakeEquipment) *Bot {
	return NewWithSources(testSettings(concurrent), players, equipment,
		func() CatalogSource { return fakeCatalogs{} },
		WithLogger(quietLogger()),
	)
}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		content string
		ok      bool
		want    *Invocation
	}{
		{"!descendant SOAD", true, &Invocation{Command: "descendant", Args: []string{"SOAD"}}},
		{"  !weapons   a#1  extra ", true, &Invocation{Command: "weapons", Args: []string{"a#1", "extra"}}},
		{"!help", true, &Invocation{Command: "help", Args: []string{}}},
		{"!", false, nil},
		{"hello !descendant", false, nil},
		{"", false, nil},
	}
	for _, tc := range cases {
		got, ok := ParseCommand("!", tc.content)
		if ok != tc.ok {
			t.Fatalf("ParseCommand(%q) ok expected %v, got %v", tc.content, tc.ok, ok)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("ParseCommand(%q) mismatch (-want +got):\n%s", tc.content, diff)
		}
	}
}

func TestExecute_DescendantReport(t *testing.T) {
	for _, concurrent := range []bool{true, false} {
		b := newFakeBot(concurrent, &fakePlayers{ouid: "o1"}, &fakeEquipment{})
		text, err := b.Execute(context.Background(), &Invocation{Command: "descendant", Args: []string{"p#1"}})
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}
		for _, want := range []string{"   Ajax (40)", "   Max HP (2)(I)", "   Max HP: +10.0%", "   R (Granite)"} {
			if !strings.Contains(text, want) {
				t.Fatalf("concurrent=%v: report missing %q:\n%s", concurrent, want, text)
			}
		}
		if strings.Contains(text, "External Components") {
			t.Fatalf("descendant report must not include external components")
		}
	}
}

func TestExecute_BuildIncludesExternalComponents(t *testing.T) {
	b := newFakeBot(true, &fakePlayers{ouid: "o1"}, &fakeEquipment{})
	text, err := b.Execute(context.Background(), &Invocation{Command: "build", Args: []string{"p#1"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(text, "**External Components:**\n   Helmet\n      DEF: 1200\n") {
		t.Fatalf("build report missing components:\n%s", text)
	}
}

func TestExecute_AllOrNothing(t *testing.T) {
	cases := []struct {
		command   string
		equipment *fakeEquipment
		want      string
	}{
		{"descendant", &fakeEquipment{noReactor: true}, "Could not find descendant information for player 'p#1'."},
		{"build", &fakeEquipment{noComponent: true}, "Could not find descendant information for player 'p#1'."},
		{"weapons", &fakeEquipment{noWeapons: true}, "Could not find weapon information for player 'p#1'."},
	}
	for _, tc := range cases {
		b := newFakeBot(true, &fakePlayers{ouid: "o1"}, tc.equipment)
		text, err := b.Execute(context.Background(), &Invocation{Command: tc.command, Args: []string{"p#1"}})
		if err != nil {
			t.Fatalf("%s: Execute: %v", tc.command, err)
		}
		if text != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.command, tc.want, text)
		}
	}
}

func TestExecute_UnknownPlayerStopsBeforeEquipment(t *testing.T) {
	players := &fakePlayers{}
	equipment := &fakeEquipment{}
	b := newFakeBot(true, players, equipment)

	text, err := b.Execute(context.Background(), &Invocation{Command: "weapons", Args: []string{"ghost"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if text != "Could not find OUID for player 'ghost'." {
		t.Fatalf("unexpected reply %q", text)
	}
	if equipment.calls.Load() != 0 {
		t.Fatalf("expected no equipment calls, got %d", equipment.calls.Load())
	}
}

func TestExecute_UsageAndUnknown(t *testing.T) {
	players := &fakePlayers{ouid: "o1"}
	b := newFakeBot(true, players, &fakeEquipment{})

	text, err := b.Execute(context.Background(), &Invocation{Command: "descendant"})
	if err != nil || text != "Usage: `!descendant USERNAME`" {
		t.Fatalf("unexpected usage reply %q err=%v", text, err)
	}
	if players.calls.Load() != 0 {
		t.Fatalf("usage must not resolve a player")
	}

	if _, err := b.Execute(context.Background(), &Invocation{Command: "nope"}); !IsUnknownCommand(err) {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestHelpText(t *testing.T) {
	b := newFakeBot(true, &fakePlayers{}, &fakeEquipment{})
	want := "`!descendant USERNAME`\n   #Fetches and displays detailed information about the equipped descendant for the given username.\n" +
		"\n`!build USERNAME`\n   #Same as descendant, plus the equipped external components.\n" +
		"\n`!weapons USERNAME`\n   #Fetches and displays detailed information about the equipped weapons for the given username.\n"
	if diff := cmp.Diff(want, b.HelpText()); diff != "" {
		t.Fatalf("help mismatch (-want +got):\n%s", diff)
	}
	for _, name := range []string{"help", "tfd_help", "HELP"} {
		text, err := b.Execute(context.Background(), &Invocation{Command: name})
		if err != nil || text != want {
			t.Fatalf("%s: unexpected reply err=%v", name, err)
		}
	}
}

type recordingSender struct {
	mu     sync.Mutex
	sent   []string
	failAt int
}

func (s *recordingSender) Send(ctx context.Context, channelID string, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAt > 0 && len(s.sent)+1 == s.failAt {
		return errors.New("rate limited")
	}
	s.sent = append(s.sent, content)
	return nil
}

func TestHandleMessage_IgnoresNonCommands(t *testing.T) {
	b := newFakeBot(true, &fakePlayers{ouid: "o1"}, &fakeEquipment{})
	sender := &recordingSender{}
	for _, msg := range []Message{
		{Content: "hello"},
		{Content: "!unknown x"},
		{Content: "!help", AuthorIsBot: true},
	} {
		if err := b.HandleMessage(context.Background(), msg, sender); err != nil {
			t.Fatalf("HandleMessage(%q): %v", msg.Content, err)
		}
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no replies, got %q", sender.sent)
	}
}

func TestHandleMessage_SendsChunksInOrder(t *testing.T) {
	players := &fakePlayers{ouid: "o1"}
	equipment := &fakeEquipment{}
	b := newFakeBot(true, players, equipment)
	sender := &recordingSender{}

	err := b.HandleMessage(context.Background(), Message{ChannelID: "c1", AuthorID: "u1", Content: "!descendant p#1"}, sender)
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(sender.sent) != 1 || !strings.HasPrefix(sender.sent[0], "**Equipped Descendant for p#1**\n") {
		t.Fatalf("unexpected replies %q", sender.sent)
	}
}

func TestHandleMessage_StopsAtFirstFailedSend(t *testing.T) {
	b := newFakeBot(true, &fakePlayers{ouid: "o1"}, &fakeEquipment{})
	b.register(&command{
		name: "long",
		run: func(ctx context.Context, inv *Invocation) (string, error) {
			return strings.Repeat("x", 5000), nil
		},
	})
	sender := &recordingSender{failAt: 2}

	err := b.HandleMessage(context.Background(), Message{ChannelID: "c1", Content: "!long"}, sender)
	if err == nil {
		t.Fatalf("expected send error")
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected sending to stop after the failure, got %d segments", len(sender.sent))
	}
}

func TestRun_ReturnsChunks(t *testing.T) {
	b := newFakeBot(false, &fakePlayers{ouid: "o1"}, &fakeEquipment{})
	chunks, err := b.Run(context.Background(), &Invocation{Command: "weapons", Args: []string{"p#1"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(chunks) != 1 || !strings.Contains(chunks[0], "**Weapon Name**: Thunder Cage") {
		t.Fatalf("unexpected chunks %q", chunks)
	}
}

func TestGather_NoLeakedGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := newFakeBot(true, &fakePlayers{ouid: "o1"}, &fakeEquipment{})
	for i := 0; i < 10; i++ {
		if _, err := b.Execute(context.Background(), &Invocation{Command: "build", Args: []string{"p#1"}}); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}
}

func TestNew_UnknownPlayerEndToEnd(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path != "/tfd/v1/id" {
			t.Errorf("unexpected request to %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	s := testSettings(true)
	s.APIBaseURL = srv.URL
	client, err := tfdapi.NewClient(s, quietLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	b := New(s, client, WithLogger(quietLogger()))

	text, err := b.Execute(context.Background(), &Invocation{Command: "descendant", Args: []string{"ghost"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if text != "Could not find OUID for player 'ghost'." {
		t.Fatalf("unexpected reply %q", text)
	}
	if n := requests.Load(); n != 1 {
		t.Fatalf("expected exactly one request, got %d", n)
	}
}

func TestNew_EmptyCatalogFailsReport(t *testing.T) {
	routes := map[string]string{
		"/tfd/v1/id":                          `{"ouid": "o1"}`,
		"/tfd/v1/user/descendant":             `{"descendant_id": "1", "descendant_level": 40, "module": []}`,
		"/tfd/v1/user/reactor":                `{"reactor_id": "r1"}`,
		"/static/tfd/meta/en/descendant.json": `[{"descendant_id": "1", "descendant_name": "Ajax"}]`,
		"/static/tfd/meta/en/module.json":     `[]`,
		"/static/tfd/meta/en/reactor.json":    `[{"reactor_id": "r1", "reactor_name": "R"}]`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, body)
	}))
	defer srv.Close()

	s := testSettings(true)
	s.APIBaseURL = srv.URL
	client, err := tfdapi.NewClient(s, quietLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	b := New(s, client, WithLogger(quietLogger()))

	text, err := b.Execute(context.Background(), &Invocation{Command: "descendant", Args: []string{"p#1"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if text != "Could not find descendant information for player 'p#1'." {
		t.Fatalf("unexpected reply %q", text)
	}
}
