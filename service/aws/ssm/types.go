package ssm

import (
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ssm/ssmiface"
)

var region *string

func init() {
	region = aws.String(os.Getenv("AWS_REGION"))
}

type ParameterStore struct {
	Client ssmiface.SSMAPI
}

type ParameterNotFoundError struct {
	Name string
}

func (e *ParameterNotFoundError) Error() string {
	return fmt.Sprintf("parameter {%s} not found", e.Name)
}
