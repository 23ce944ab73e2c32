package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophsignup/internal/logging"
	"github.com/dmitrijs2005/gophsignup/internal/server/models"
	"github.com/dmitrijs2005/gophsignup/internal/server/services"
)

type fakeAccounts struct {
	regReq  services.RegisterRequest
	regResp *models.Account
	regErr  error

	loginPhone, loginPassword string
	loginResp                 *services.LoginResult
	loginErr                  error

	verifyResp []*models.Account
	verifyErr  error

	resendResp []*models.Account
	resendErr  error

	getID   int64
	getResp *models.Account
	getErr  error
}

func (f *fakeAccounts) Register(_ context.Context, req services.RegisterRequest) (*models.Account, error) {
	f.regReq = req
	return f.regResp, f.regErr
}

func (f *fakeAccounts) Login(_ context.Context, phone, password string) (*services.LoginResult, error) {
	f.loginPhone, f.loginPassword = phone, password
	return f.loginResp, f.loginErr
}

func (f *fakeAccounts) Verify(context.Context, string, string) ([]*models.Account, error) {
	return f.verifyResp, f.verifyErr
}

func (f *fakeAccounts) ResendVerificationCode(context.Context, string) ([]*models.Account, error) {
	return f.resendResp, f.resendErr
}

func (f *fakeAccounts) GetAccount(_ context.Context, id int64) (*models.Account, error) {
	f.getID = id
	return f.getResp, f.getErr
}

func newServer(a accountService) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", logging.Nop(), a, "secret")
}
