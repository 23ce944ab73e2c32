package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophsignup/internal/client/models"
	"github.com/dmitrijs2005/gophsignup/internal/common"
	pb "github.com/dmitrijs2005/gophsignup/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      pb.AccountServiceClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the current access token, if any, to every call.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

func NewAccountClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}
	err := c.InitGRPCClient(opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewAccountServiceClient(conn)
	return nil
}

func (s *GRPCClient) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *GRPCClient) Register(ctx context.Context, in RegisterInput) (*models.Account, error) {

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	req := &pb.RegisterRequest{
		Username:       in.Username,
		Phone:          in.Phone,
		Email:          in.Email,
		Password:       in.Password,
		InvitationCode: in.InvitationCode,
	}

	resp, err := s.client.Register(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	return toAccount(resp.Account), nil
}

// Login returns the matching accounts and the access token. No match is an
// empty slice, not an error. The token is remembered for later calls.
func (s *GRPCClient) Login(ctx context.Context, phone, password string) ([]*models.Account, string, error) {

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Login(ctx, &pb.LoginRequest{Phone: phone, Password: password})
	if err != nil {
		return nil, "", s.mapError(err)
	}

	if resp.AccessToken != "" {
		s.SetAccessToken(resp.AccessToken)
	}

	return toAccounts(resp.Accounts), resp.AccessToken, nil
}

func (s *GRPCClient) Verify(ctx context.Context, email, code string) ([]*models.Account, error) {

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Verify(ctx, &pb.VerifyRequest{Email: email, Code: code})
	if err != nil {
		return nil, s.mapError(err)
	}

	return toAccounts(resp.Accounts), nil
}

func (s *GRPCClient) ResendVerificationCode(ctx context.Context, email string) ([]*models.Account, error) {

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.ResendVerificationCode(ctx, &pb.ResendVerificationCodeRequest{Email: email})
	if err != nil {
		return nil, s.mapError(err)
	}

	return toAccounts(resp.Accounts), nil
}

func (s *GRPCClient) Me(ctx context.Context) (*models.Account, error) {

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Me(ctx, &pb.MeRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}

	return toAccount(resp.Account), nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidInput, st.Message())
	case codes.ResourceExhausted:
		return ErrTooManyTries
	case codes.NotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func toAccount(a *pb.Account) *models.Account {
	if a == nil {
		return nil
	}
	out := &models.Account{
		ID:             a.ID,
		Username:       a.Username,
		Phone:          a.Phone,
		Email:          a.Email,
		InvitationCode: a.InvitationCode,
		Verified:       a.Verified,
	}
	// unparseable timestamps are left zero
	out.CreatedAt, _ = time.Parse(time.RFC3339, a.CreatedAt)
	out.UpdatedAt, _ = time.Parse(time.RFC3339, a.UpdatedAt)
	return out
}

func toAccounts(in []*pb.Account) []*models.Account {
	out := make([]*models.Account, 0, len(in))
	for _, a := range in {
		out = append(out, toAccount(a))
	}
	return out
}
