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

package swxutil

import (
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/timestreamwrite"
	"github.com/aws/aws-sdk-go/service/timestreamwrite/timestreamwriteiface"
	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"
)

// Telemetry records named pipeline measurements to an Amazon Timestream
// table. A nil Telemetry or one built with Enabled false records nothing,
// so callers do not need to guard every measurement.
type Telemetry struct {
	svc      timestreamwriteiface.TimestreamWriteAPI
	database string
	table    string
	mission  string
	log      logrus.FieldLogger
}

// NewTelemetry connects to Timestream for the configured mission.
// It returns nil when cfg.Telemetry.Enabled is false.
func NewTelemetry(cfg *Config) (*Telemetry, error) {
	if cfg == nil || !cfg.Telemetry.Enabled {
		return nil, nil
	}
	region := cfg.Telemetry.Region
	if region == "" {
		region = "us-east-1"
	}
	sess, err := session.NewSession(aws.NewConfig().WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("swxutil: connecting to timestream: %v", err)
	}
	return &Telemetry{
		svc:      timestreamwrite.New(sess),
		database: cfg.Telemetry.Database,
		table:    cfg.Telemetry.Table,
		mission:  cfg.MissionName,
		log:      logrus.StandardLogger(),
	}, nil
}

// Record writes one measurement with the given dimensions. Transient
// write failures are retried with exponential backoff.
func (t *Telemetry) Record(name string, value float64, dimensions map[string]string) error {
	if t == nil {
		return nil
	}
	dims := []*timestreamwrite.Dimension{{
		Name:  aws.String("mission"),
		Value: aws.String(t.mission),
	}}
	for k, v := range dimensions {
		dims = append(dims, &timestreamwrite.Dimension{
			Name:  aws.String(k),
			Value: aws.String(v),
		})
	}
	rec := &timestreamwrite.Record{
		Dimensions:       dims,
		MeasureName:      aws.String(name),
		MeasureValue:     aws.String(strconv.FormatFloat(value, 'g', -1, 64)),
		MeasureValueType: aws.String(timestreamwrite.MeasureValueTypeDouble),
		Time:             aws.String(strconv.FormatInt(time.Now().UnixNano(), 10)),
		TimeUnit:         aws.String(timestreamwrite.TimeUnitNanoseconds),
	}
	err := backoff.RetryNotify(
		func() error {
			_, err := t.svc.WriteRecords(&timestreamwrite.WriteRecordsInput{
				DatabaseName: aws.String(t.database),
				TableName:    aws.String(t.table),
				Records:      []*timestreamwrite.Record{rec},
			})
			return err
		},
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5),
		func(err error, d time.Duration) {
			t.log.Printf("%v: retrying in %v", err, d)
		},
	)
	if err != nil {
		return fmt.Errorf("swxutil: recording measurement %s: %v", name, err)
	}
	return nil
}
