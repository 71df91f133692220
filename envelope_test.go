package yarrow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
)

type EnvelopeSuite struct {
	suite.Suite
}

func TestEnvelopeSuite(t *testing.T) {
	suite.Run(t, new(EnvelopeSuite))
}

func (s *EnvelopeSuite) TestFieldOrder() {
	env := NewProcessing(Request{"a": 1.0}, ResultElement{"c": 2.0}, 0)
	raw, err := Encode(env)
	s.Require().NoError(err)

	s.Assert().Equal(
		`{"request":{"a":1},"result":{"c":2},"status":"PROCESSING","error":null,"num":0}`,
		string(raw),
	)
}

func (s *EnvelopeSuite) TestDoneHasNullResult() {
	env := NewDone(Request{"a": 1.0}, 3)
	raw, err := Encode(env)
	s.Require().NoError(err)

	var decoded map[string]json.RawMessage
	s.Require().NoError(json.Unmarshal(raw, &decoded))
	s.Assert().Equal("null", string(decoded["result"]))
	s.Assert().Equal(`"DONE"`, string(decoded["status"]))
	s.Assert().Equal("3", string(decoded["num"]))
}

func (s *EnvelopeSuite) TestErrorCarriesMessage() {
	env := NewError(Request{"a": 1.0}, "boom")
	raw, err := Encode(env)
	s.Require().NoError(err)

	var decoded map[string]json.RawMessage
	s.Require().NoError(json.Unmarshal(raw, &decoded))
	s.Assert().Equal(`"boom"`, string(decoded["error"]))
	s.Assert().Equal("null", string(decoded["result"]))
	s.Assert().Equal("0", string(decoded["num"]))
}

func (s *EnvelopeSuite) TestStatusUnmarshalUnknownLabel() {
	var status Status
	err := json.Unmarshal([]byte(`"BOGUS"`), &status)
	s.Assert().Error(err)
}

func (s *EnvelopeSuite) TestStatusRoundTrip() {
	for _, want := range []Status{StatusProcessing, StatusDone, StatusError} {
		s.Run(want.String(), func() {
			raw, err := json.Marshal(want)
			s.Require().NoError(err)

			var got Status
			s.Require().NoError(json.Unmarshal(raw, &got))
			s.Assert().Equal(want, got)
		})
	}
}
