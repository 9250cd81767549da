package ssm

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ssm"
	"github.com/gcottom/go-zaplog"
	"go.uber.org/zap"
)

func NewParameterStore(ctx context.Context) *ParameterStore {
	zaplog.InfoC(ctx, "creating ssm client")
	conf := aws.Config{Region: region}
	sess := session.Must(session.NewSession(&conf))
	return &ParameterStore{Client: ssm.New(sess)}
}

// GetParameter returns the decrypted value of a SecureString or String parameter.
func (p *ParameterStore) GetParameter(ctx context.Context, name string) (string, error) {
	zaplog.InfoC(ctx, "query ssm for parameter", zap.String("name", name))
	out, err := p.Client.GetParameterWithContext(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == ssm.ErrCodeParameterNotFound {
			return "", &ParameterNotFoundError{Name: name}
		}
		zaplog.ErrorC(ctx, "ssm error when retrieving parameter", zap.String("name", name), zap.Error(err))
		return "", err
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", &ParameterNotFoundError{Name: name}
	}
	return aws.StringValue(out.Parameter.Value), nil
}
