/*
Copyright © 2024 the SWxSOC authors.
This file is part of the SWxSOC data tools.

The SWxSOC data tools are free software: you can redistribute them and/or
modify them under the terms of the GNU General Public License as published
by the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

The SWxSOC data tools are distributed in the hope that they will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with the SWxSOC data tools.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package cloud searches and fetches mission data products from blob
// storage.
package cloud

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/gcsblob"
	"gocloud.dev/blob/s3blob"
	"gocloud.dev/gcp"
)

// OpenBucket opens the data product archive named by spec, which takes
// the form 'provider://name'. Mission archives live on AWS S3 ("s3") or
// Google Cloud Storage ("gs"); the "file" provider maps a local
// directory so that pipelines and tests can run against a scratch
// archive. Credentials come from the ambient environment: the standard
// AWS_* variables for s3 and application default credentials for gs.
func OpenBucket(ctx context.Context, spec string) (*blob.Bucket, error) {
	u, err := url.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("cloud: parsing bucket %s: %v", spec, err)
	}
	var bucket *blob.Bucket
	switch u.Scheme {
	case "file":
		bucket, err = fileblob.OpenBucket(u.Hostname()+u.Path, nil)
	case "gs":
		bucket, err = openGCS(ctx, u.Hostname())
	case "s3":
		bucket, err = openS3(ctx, u.Hostname())
	default:
		return nil, fmt.Errorf("cloud: unknown storage provider %q in bucket %s", u.Scheme, spec)
	}
	if err != nil {
		return nil, fmt.Errorf("cloud: opening bucket %s: %v", spec, err)
	}
	return bucket, nil
}

func openGCS(ctx context.Context, name string) (*blob.Bucket, error) {
	creds, err := gcp.DefaultCredentials(ctx)
	if err != nil {
		return nil, err
	}
	client, err := gcp.NewHTTPClient(gcp.DefaultTransport(), gcp.CredentialsTokenSource(creds))
	if err != nil {
		return nil, err
	}
	return gcsblob.OpenBucket(ctx, client, name, nil)
}

func openS3(ctx context.Context, name string) (*blob.Bucket, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}
	sess, err := session.NewSession(aws.NewConfig().
		WithRegion(region).
		WithCredentials(credentials.NewEnvCredentials()))
	if err != nil {
		return nil, err
	}
	return s3blob.OpenBucket(ctx, sess, name, nil)
}
