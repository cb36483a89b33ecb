// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package faas

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
	taggingtypes "github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/tombee/faas-form/internal/log"
)

// lambdaResourceType filters tagging API results to Lambda functions.
const lambdaResourceType = "lambda:function"

// LambdaAPI is the subset of the Lambda client used by LambdaProvider.
type LambdaAPI interface {
	lambda.ListFunctionsAPIClient
	Invoke(ctx context.Context, in *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
	GetFunction(ctx context.Context, in *lambda.GetFunctionInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionOutput, error)
}

// TaggingAPI is the subset of the Resource Groups Tagging client used by
// LambdaProvider.
type TaggingAPI interface {
	resourcegroupstaggingapi.GetResourcesAPIClient
	TagResources(ctx context.Context, in *resourcegroupstaggingapi.TagResourcesInput, optFns ...func(*resourcegroupstaggingapi.Options)) (*resourcegroupstaggingapi.TagResourcesOutput, error)
	UntagResources(ctx context.Context, in *resourcegroupstaggingapi.UntagResourcesInput, optFns ...func(*resourcegroupstaggingapi.Options)) (*resourcegroupstaggingapi.UntagResourcesOutput, error)
}

// IdentityAPI is the subset of the STS client used by LambdaProvider.
type IdentityAPI interface {
	GetCallerIdentity(ctx context.Context, in *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// LambdaConfig selects the AWS region and credentials profile.
type LambdaConfig struct {
	Region  string
	Profile string
}

// LambdaProvider invokes and administers AWS Lambda functions.
type LambdaProvider struct {
	lambda   LambdaAPI
	tagging  TaggingAPI
	identity IdentityAPI
	logger   *slog.Logger
}

// NewLambdaProvider loads the AWS configuration chain and builds the
// service clients.
func NewLambdaProvider(ctx context.Context, cfg LambdaConfig, logger *slog.Logger) (*LambdaProvider, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}

	loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	awsCfg, err := config.LoadDefaultConfig(loadCtx, opts...)
	if err != nil {
		return nil, &ProviderError{Provider: "lambda", Op: "load configuration", Cause: err}
	}
	if awsCfg.Region == "" {
		return nil, &ProviderError{Provider: "lambda", Op: "load configuration", Cause: errors.New("no AWS region configured")}
	}

	return NewLambdaProviderFromClients(
		lambda.NewFromConfig(awsCfg),
		resourcegroupstaggingapi.NewFromConfig(awsCfg),
		sts.NewFromConfig(awsCfg),
		logger,
	), nil
}

// NewLambdaProviderFromClients builds a provider over existing clients.
func NewLambdaProviderFromClients(l LambdaAPI, t TaggingAPI, i IdentityAPI, logger *slog.Logger) *LambdaProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &LambdaProvider{
		lambda:   l,
		tagging:  t,
		identity: i,
		logger:   log.WithProvider(logger, "lambda"),
	}
}

// Name implements Provider.
func (p *LambdaProvider) Name() string { return "lambda" }

// Invoke calls the function synchronously. With opts.Logs the last 4 KB of
// the execution log is returned.
func (p *LambdaProvider) Invoke(ctx context.Context, id string, payload []byte, opts InvokeOptions) (*InvocationResponse, error) {
	in := &lambda.InvokeInput{
		FunctionName:   aws.String(id),
		InvocationType: lambdatypes.InvocationTypeRequestResponse,
		Payload:        payload,
	}
	if opts.Logs {
		in.LogType = lambdatypes.LogTypeTail
	}

	var out *lambda.InvokeOutput
	inv := &log.Invocation{Function: id, Provider: p.Name(), Payload: payloadKind(payload)}
	err := log.Timed(ctx, p.logger, inv, func() (int, error) {
		var err error
		out, err = p.lambda.Invoke(ctx, in)
		if err != nil {
			return 0, err
		}
		return int(out.StatusCode), nil
	})
	if err != nil {
		return nil, &InvocationError{Function: id, Message: "lambda invoke failed", Cause: err}
	}

	resp := &InvocationResponse{
		StatusCode:    int(out.StatusCode),
		Payload:       out.Payload,
		FunctionError: aws.ToString(out.FunctionError),
		Raw:           out,
	}
	if out.LogResult != nil {
		decoded, err := base64.StdEncoding.DecodeString(*out.LogResult)
		if err != nil {
			p.logger.WarnContext(ctx, "undecodable log result", log.Error(err))
		} else {
			resp.Logs = string(decoded)
		}
	}
	return resp, nil
}

// List finds functions carrying the marker tag and, with opts.Env, the
// marker environment variable. Environment matches win on name clashes.
func (p *LambdaProvider) List(ctx context.Context, opts ListOptions) (map[string]FunctionInfo, error) {
	funcs := make(map[string]FunctionInfo)

	if opts.Tags {
		pager := resourcegroupstaggingapi.NewGetResourcesPaginator(p.tagging, &resourcegroupstaggingapi.GetResourcesInput{
			TagFilters:          []taggingtypes.TagFilter{{Key: aws.String(Marker)}},
			ResourceTypeFilters: []string{lambdaResourceType},
		})
		for pager.HasMorePages() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				return nil, &ProviderError{Provider: p.Name(), Op: "list tagged functions", Cause: err}
			}
			for _, mapping := range page.ResourceTagMappingList {
				arn := aws.ToString(mapping.ResourceARN)
				info := FunctionInfo{ID: arn, Name: NameFromARN(arn)}
				for _, tag := range mapping.Tags {
					if aws.ToString(tag.Key) == Marker {
						info.Description = aws.ToString(tag.Value)
						break
					}
				}
				funcs[info.Name] = info
			}
		}
	}

	if opts.Env {
		pager := lambda.NewListFunctionsPaginator(p.lambda, &lambda.ListFunctionsInput{})
		for pager.HasMorePages() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				return nil, &ProviderError{Provider: p.Name(), Op: "list functions", Cause: err}
			}
			for _, fn := range page.Functions {
				if fn.Environment == nil {
					continue
				}
				description, ok := fn.Environment.Variables[Marker]
				if !ok {
					continue
				}
				arn := aws.ToString(fn.FunctionArn)
				info := FunctionInfo{ID: arn, Name: NameFromARN(arn), Description: description}
				funcs[info.Name] = info
			}
		}
	}

	p.logger.DebugContext(ctx, "listed functions", "count", len(funcs), "tags", opts.Tags, "env", opts.Env)
	return funcs, nil
}

// Tag marks the function as compatible, storing description as the tag value.
func (p *LambdaProvider) Tag(ctx context.Context, id, description string) error {
	arn, err := p.resolveARN(ctx, id)
	if err != nil {
		return err
	}
	out, err := p.tagging.TagResources(ctx, &resourcegroupstaggingapi.TagResourcesInput{
		ResourceARNList: []string{arn},
		Tags:            map[string]string{Marker: description},
	})
	if err != nil {
		return &ProviderError{Provider: p.Name(), Op: "tag", Cause: err}
	}
	return failedResources("tag", out.FailedResourcesMap)
}

// Untag removes the compatibility marker tag.
func (p *LambdaProvider) Untag(ctx context.Context, id string) error {
	arn, err := p.resolveARN(ctx, id)
	if err != nil {
		return err
	}
	out, err := p.tagging.UntagResources(ctx, &resourcegroupstaggingapi.UntagResourcesInput{
		ResourceARNList: []string{arn},
		TagKeys:         []string{Marker},
	})
	if err != nil {
		return &ProviderError{Provider: p.Name(), Op: "untag", Cause: err}
	}
	return failedResources("untag", out.FailedResourcesMap)
}

// Whoami returns the STS caller identity of the configured credentials.
func (p *LambdaProvider) Whoami(ctx context.Context) (*Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out, err := p.identity.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Op: "validate credentials", Cause: err}
	}
	return &Identity{
		Account: aws.ToString(out.Account),
		ARN:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}

func (p *LambdaProvider) resolveARN(ctx context.Context, id string) (string, error) {
	if strings.HasPrefix(id, "arn:") {
		return id, nil
	}
	out, err := p.lambda.GetFunction(ctx, &lambda.GetFunctionInput{FunctionName: aws.String(id)})
	if err != nil {
		var notFound *lambdatypes.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return "", &ProviderError{Provider: p.Name(), Op: "resolve " + id, Cause: ErrNotFound}
		}
		return "", &ProviderError{Provider: p.Name(), Op: "resolve " + id, Cause: err}
	}
	if out.Configuration == nil || out.Configuration.FunctionArn == nil {
		return "", &ProviderError{Provider: p.Name(), Op: "resolve " + id, Cause: ErrNotFound}
	}
	return *out.Configuration.FunctionArn, nil
}

func failedResources(op string, failed map[string]taggingtypes.FailureInfo) error {
	for arn, info := range failed {
		return &ProviderError{
			Provider: "lambda",
			Op:       op,
			Cause:    fmt.Errorf("%s: %s %s", arn, info.ErrorCode, aws.ToString(info.ErrorMessage)),
		}
	}
	return nil
}
