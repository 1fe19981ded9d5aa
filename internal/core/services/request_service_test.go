package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/casa_ledger/internal/apperrors"
	"github.com/SscSPs/casa_ledger/internal/core/domain"
	"github.com/SscSPs/casa_ledger/internal/dto"
)

type RequestServiceTestSuite struct {
	suite.Suite
	env *testEnv
}

func (s *RequestServiceTestSuite) SetupTest() {
	s.env = newTestEnv(s.T())
	s.env.seed(s.T(), casa, "100")
	s.env.seed(s.T(), ana, "10")
}

func TestRequestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RequestServiceTestSuite))
}

func (s *RequestServiceTestSuite) create(id, amount string) *domain.Request {
	r, err := s.env.svc.Request.CreateRequest(s.env.ctx, dto.CreateRequestRequest{
		ID: id, Amount: dec(amount), Category: "school", Concept: "Books for class",
	}, "ana")
	s.Require().NoError(err)
	return r
}

func (s *RequestServiceTestSuite) TestCreate_NotifiesAdmins() {
	r := s.create("r1", "40")

	s.Equal(domain.RequestPending, r.Status)
	s.Equal(domain.UserID("ana"), r.Requester)
	notes := s.env.notifications(s.T(), domain.RecipientAdmins)
	s.Require().Len(notes, 1)
	s.Equal(domain.NotifyRequestCreated, notes[0].Type)
	s.Equal("r1", notes[0].Context["requestId"])
}

func (s *RequestServiceTestSuite) TestCreate_SameIDReplays() {
	first := s.create("r1", "40")
	again, err := s.env.svc.Request.CreateRequest(s.env.ctx, dto.CreateRequestRequest{
		ID: "r1", Amount: dec("99"), Category: "other", Concept: "Something else",
	}, "ana")
	s.Require().NoError(err)

	s.True(first.Amount.Equal(again.Amount))
	s.Len(s.env.notifications(s.T(), domain.RecipientAdmins), 1)
}

func (s *RequestServiceTestSuite) TestCreate_Validation() {
	_, err := s.env.svc.Request.CreateRequest(s.env.ctx, dto.CreateRequestRequest{Amount: dec("5"), Category: "school", Concept: "Book"}, "ana")
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.env.svc.Request.CreateRequest(s.env.ctx, dto.CreateRequestRequest{Amount: dec("5"), Concept: "Books for class"}, "ana")
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *RequestServiceTestSuite) TestApprove_PaysFromCasa() {
	s.create("r1", "40")

	r, err := s.env.svc.Request.SettleRequest(s.env.ctx, dto.SettleRequestRequest{RequestID: "r1", Decision: domain.DecisionApprove}, "mama")
	s.Require().NoError(err)

	s.Equal(domain.RequestApproved, r.Status)
	s.Equal(domain.UserID("mama"), r.ResolvedBy)
	s.Require().NotNil(r.ResolvedAt)
	s.Equal("settlement-r1", r.TransactionID)

	s.True(s.env.balance(s.T(), casa).Equal(dec("60")))
	s.True(s.env.balance(s.T(), ana).Equal(dec("50")))

	txs := s.env.transactions(s.T())
	s.Require().Len(txs, 1)
	s.Equal(domain.KindRequestSettlement, txs[0].Kind)
	s.Equal("settlement-r1", txs[0].ID)

	notes := s.env.notifications(s.T(), "ana")
	s.Require().Len(notes, 1)
	s.Equal(domain.NotifyRequestApproved, notes[0].Type)
}

func (s *RequestServiceTestSuite) TestApprove_Twice() {
	s.create("r1", "40")
	settle := dto.SettleRequestRequest{RequestID: "r1", Decision: domain.DecisionApprove}
	_, err := s.env.svc.Request.SettleRequest(s.env.ctx, settle, "mama")
	s.Require().NoError(err)

	_, err = s.env.svc.Request.SettleRequest(s.env.ctx, settle, "papa")
	s.ErrorIs(err, apperrors.ErrValidation)
	s.True(s.env.balance(s.T(), casa).Equal(dec("60")))
	s.Len(s.env.transactions(s.T()), 1)
}

func (s *RequestServiceTestSuite) TestApprove_CasaShort() {
	s.create("r1", "100.01")

	_, err := s.env.svc.Request.SettleRequest(s.env.ctx, dto.SettleRequestRequest{RequestID: "r1", Decision: domain.DecisionApprove}, "mama")
	s.ErrorIs(err, apperrors.ErrInsufficientFunds)

	r, err := s.env.svc.Request.GetRequest(s.env.ctx, "r1")
	s.Require().NoError(err)
	s.Equal(domain.RequestPending, r.Status)
	s.True(s.env.balance(s.T(), casa).Equal(dec("100")))
}

func (s *RequestServiceTestSuite) TestReject_RecordsReason() {
	s.create("r1", "40")

	r, err := s.env.svc.Request.SettleRequest(s.env.ctx, dto.SettleRequestRequest{
		RequestID: "r1", Decision: domain.DecisionReject, Reason: "No justificado",
	}, "mama")
	s.Require().NoError(err)

	s.Equal(domain.RequestRejected, r.Status)
	s.Equal("No justificado", r.RejectionReason)
	s.True(s.env.balance(s.T(), casa).Equal(dec("100")))
	s.Empty(s.env.transactions(s.T()))

	notes := s.env.notifications(s.T(), "ana")
	s.Require().Len(notes, 1)
	s.Equal(domain.NotifyRequestRejected, notes[0].Type)
	s.Contains(notes[0].Message, "No justificado")
}

func (s *RequestServiceTestSuite) TestReject_ShortReason() {
	s.create("r1", "40")
	_, err := s.env.svc.Request.SettleRequest(s.env.ctx, dto.SettleRequestRequest{RequestID: "r1", Decision: domain.DecisionReject, Reason: "no"}, "mama")
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *RequestServiceTestSuite) TestSettle_Unknown() {
	_, err := s.env.svc.Request.SettleRequest(s.env.ctx, dto.SettleRequestRequest{RequestID: "nope", Decision: domain.DecisionApprove}, "mama")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *RequestServiceTestSuite) TestList_FiltersByStatus() {
	s.create("r1", "10")
	s.create("r2", "20")
	_, err := s.env.svc.Request.SettleRequest(s.env.ctx, dto.SettleRequestRequest{RequestID: "r1", Decision: domain.DecisionApprove}, "mama")
	s.Require().NoError(err)

	pending := domain.RequestPending
	list, err := s.env.svc.Request.ListRequests(s.env.ctx, dto.ListRequestsParams{Status: &pending})
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("r2", list[0].ID)

	all, err := s.env.svc.Request.ListRequests(s.env.ctx, dto.ListRequestsParams{})
	s.Require().NoError(err)
	s.Len(all, 2)
}

func TestMarkRead(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, ana, "0")
	_, err := env.svc.Ledger.Deposit(env.ctx, dto.DepositRequest{Target: ana, Amount: dec("5"), Concept: "Pocket money"}, "mama")
	require.NoError(t, err)
	notes := env.notifications(t, "ana")
	require.Len(t, notes, 1)

	_, err = env.svc.Notification.MarkRead(env.ctx, notes[0].ID, "luis")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	n, err := env.svc.Notification.MarkRead(env.ctx, notes[0].ID, "ana")
	require.NoError(t, err)
	assert.True(t, n.Read)
	assert.True(t, env.notifications(t, "ana")[0].Read)
}
