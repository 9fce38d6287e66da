package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/bingobot/internal/api"
	"github.com/mcoot/bingobot/internal/factory"
	"github.com/mcoot/bingobot/internal/testutil"
)

const adminKey = "cli-admin"

type CLISuite struct {
	suite.Suite
	app    *factory.TestApp
	server *httptest.Server
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupTest() {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminKey), bcrypt.MinCost)
	s.Require().NoError(err)

	s.app = factory.NewTestApp()
	s.app.Start()
	s.server = httptest.NewServer(api.NewRouter(api.RouterConfig{
		Logger:       testutil.NopLogger(),
		Game:         s.app.Game,
		Events:       s.app.Hub,
		AdminKeyHash: string(hash),
	}))
}

func (s *CLISuite) TearDownTest() {
	s.server.Close()
	s.Require().NoError(s.app.Close())
}

// run executes bingoctl with args and returns its output
func (s *CLISuite) run(args ...string) (string, error) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--server", s.server.URL}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (s *CLISuite) TestHealth() {
	out, err := s.run("health")
	s.Require().NoError(err)
	s.Equal("Status: ok\n", out)
}

func (s *CLISuite) TestStatusJSON() {
	out, err := s.run("status", "-o", "json")
	s.Require().NoError(err)

	var g Game
	s.Require().NoError(json.Unmarshal([]byte(out), &g))
	s.Equal("idle", g.State)
	s.Equal("line", g.Mode)
}

func (s *CLISuite) TestGameFlow() {
	out, err := s.run("--player", "alice", "create")
	s.Require().NoError(err)
	s.Contains(out, "State: lobby")
	s.Contains(out, "Created By: alice")

	s.app.QueueSequentialCard()
	out, err = s.run("-p", "alice", "join")
	s.Require().NoError(err)
	s.Contains(out, "   B    I    N    G    O")
	s.Contains(out, "|   1   16   31   46   61 |")

	out, err = s.run("players")
	s.Require().NoError(err)
	s.Contains(out, "  - alice")

	_, err = s.run("-p", "alice", "mode", "corners")
	s.ErrorContains(err, "PERMISSION_DENIED")

	out, err = s.run("-p", "admin", "--admin-key", adminKey, "mode", "corners")
	s.Require().NoError(err)
	s.Equal("Mode: corners\n", out)

	s.app.QueueCalls(1, 61, 5, 65)
	s.app.MockClock.Advance(factory.TestLobbyWindow)
	for _, n := range []string{"1", "61", "5", "65"} {
		s.app.MockClock.Advance(factory.TestCallInterval)
		out, err = s.run("-p", "alice", "mark", n)
		s.Require().NoError(err)
		s.Contains(out, "Marked "+n)
	}

	out, err = s.run("-p", "alice", "card")
	s.Require().NoError(err)
	s.Contains(out, "[ 1]")
	s.Contains(out, "Pattern complete")

	out, err = s.run("-p", "alice", "bingo")
	s.Require().NoError(err)
	s.Equal("BINGO! Won in corners mode after 4 calls\n", out)

	out, err = s.run("history", "-n", "5")
	s.Require().NoError(err)
	s.Contains(out, "won")
	s.Contains(out, "winner=alice")
}

func (s *CLISuite) TestStop() {
	_, err := s.run("-p", "admin", "--admin-key", adminKey, "stop")
	s.ErrorContains(err, "NOT_ACTIVE")

	_, err = s.run("-p", "alice", "create")
	s.Require().NoError(err)

	out, err := s.run("-p", "admin", "--admin-key", adminKey, "stop", "-o", "json")
	s.Require().NoError(err)
	s.JSONEq(`{"message":"Game stopped"}`, out)
}

func (s *CLISuite) TestMarkRejectsNonNumber() {
	_, err := s.run("-p", "alice", "mark", "twelve")
	s.ErrorContains(err, "invalid number")
}

func (s *CLISuite) TestWrongAdminKey() {
	_, err := s.run("-p", "admin", "--admin-key", "nope", "stop")
	s.ErrorContains(err, "UNAUTHORIZED")
}

func (s *CLISuite) TestModeWithoutAdminKeyHints() {
	_, err := s.run("-p", "alice", "create")
	s.Require().NoError(err)

	_, err = s.run("-p", "alice", "mode", "corners")
	var reqErr *RequestError
	s.Require().ErrorAs(err, &reqErr)
	s.Equal(http.StatusForbidden, reqErr.Status)
	s.ErrorContains(err, "pass --admin-key")
}

func TestDescribeEvent(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{
			name: "number_called",
			data: `{"type":"number_called","payload":{"number":47,"total_called":3}}`,
			want: "G-47 (call 3)",
		},
		{
			name: "player_joined",
			data: `{"type":"player_joined","player_id":"alice"}`,
			want: "alice joined",
		},
		{
			name: "game_won",
			data: `{"type":"game_won","player_id":"bob","payload":{"winner":"bob","mode":"corners","total_called":4}}`,
			want: "bob won in corners mode after 4 calls",
		},
		{
			name: "lobby_started",
			data: `{"type":"lobby_started","player_id":"alice","payload":{"created_by":"alice","mode":"line"}}`,
			want: "alice opened a lobby (line mode)",
		},
		{
			name: "unknown_event",
			data: `not json`,
			want: "unknown_event",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeEvent(decodeEvent(tt.name, tt.data)))
		})
	}
}
