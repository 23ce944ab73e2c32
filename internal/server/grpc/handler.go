package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophsignup/internal/common"
	pb "github.com/dmitrijs2005/gophsignup/internal/proto"
	"github.com/dmitrijs2005/gophsignup/internal/server/models"
	"github.com/dmitrijs2005/gophsignup/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.RegisterResponse, error) {

	s.logger.Info(ctx, "Registration request", "username", req.Username)

	account, err := s.accounts.Register(ctx, services.RegisterRequest{
		Username:       req.Username,
		Phone:          req.Phone,
		Email:          req.Email,
		Password:       req.Password,
		InvitationCode: req.InvitationCode,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &pb.RegisterResponse{Account: toPBAccount(account)}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *pb.LoginRequest) (*pb.LoginResponse, error) {

	result, err := s.accounts.Login(ctx, req.Phone, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &pb.LoginResponse{Accounts: toPBAccounts(result.Accounts), AccessToken: result.AccessToken}, nil
}

func (s *GRPCServer) Verify(ctx context.Context, req *pb.VerifyRequest) (*pb.VerifyResponse, error) {

	updated, err := s.accounts.Verify(ctx, req.Email, req.Code)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &pb.VerifyResponse{Accounts: toPBAccounts(updated)}, nil
}

func (s *GRPCServer) ResendVerificationCode(ctx context.Context, req *pb.ResendVerificationCodeRequest) (*pb.ResendVerificationCodeResponse, error) {

	updated, err := s.accounts.ResendVerificationCode(ctx, req.Email)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &pb.ResendVerificationCodeResponse{Accounts: toPBAccounts(updated)}, nil
}

func (s *GRPCServer) Me(ctx context.Context, _ *pb.MeRequest) (*pb.MeResponse, error) {

	accountID, ok := accountIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &pb.MeResponse{Account: toPBAccount(account)}, nil
}

// toStatus maps service errors onto gRPC status codes. Unexpected errors are
// logged and reported as Internal without details.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorUniquenessViolation):
		return status.Error(codes.AlreadyExists, "username, phone or email already registered")
	case errors.Is(err, common.ErrorRateLimited):
		return status.Error(codes.ResourceExhausted, "too many attempts, try again later")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrorStorageUnavailable):
		s.logger.Error(ctx, "storage unavailable", "error", err)
		return status.Error(codes.Unavailable, "storage unavailable")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		s.logger.Error(ctx, err.Error())
		return status.Error(codes.Internal, "internal error")
	}
}

func toPBAccount(a *models.Account) *pb.Account {
	if a == nil {
		return nil
	}
	out := &pb.Account{
		ID:       a.ID,
		Username: a.Username,
		Phone:    a.Phone,
		Email:    a.Email,
		Verified: a.Verified,
	}
	if a.InvitationCode != nil {
		out.InvitationCode = *a.InvitationCode
	}
	if a.CreatedAt != nil {
		out.CreatedAt = a.CreatedAt.Format(time.RFC3339)
	}
	if a.UpdatedAt != nil {
		out.UpdatedAt = a.UpdatedAt.Format(time.RFC3339)
	}
	return out
}

func toPBAccounts(in []*models.Account) []*pb.Account {
	out := make([]*pb.Account, 0, len(in))
	for _, a := range in {
		out = append(out, toPBAccount(a))
	}
	return out
}
