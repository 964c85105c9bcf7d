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
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/timestreamwrite"
	"github.com/aws/aws-sdk-go/service/timestreamwrite/timestreamwriteiface"
	"github.com/sirupsen/logrus"
)

type fakeTimestream struct {
	timestreamwriteiface.TimestreamWriteAPI
	inputs []*timestreamwrite.WriteRecordsInput
}

func (f *fakeTimestream) WriteRecords(in *timestreamwrite.WriteRecordsInput) (*timestreamwrite.WriteRecordsOutput, error) {
	f.inputs = append(f.inputs, in)
	return &timestreamwrite.WriteRecordsOutput{}, nil
}

func TestTelemetryDisabled(t *testing.T) {
	tel, err := NewTelemetry(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if tel != nil {
		t.Fatal("telemetry should be nil when disabled")
	}
	if err := tel.Record("files_processed", 1, nil); err != nil {
		t.Errorf("nil telemetry Record: %v", err)
	}
}

func TestTelemetryRecord(t *testing.T) {
	fake := &fakeTimestream{}
	tel := &Telemetry{
		svc:      fake,
		database: "ops",
		table:    "measurements",
		mission:  "swxsoc",
		log:      logrus.StandardLogger(),
	}
	err := tel.Record("files_processed", 3, map[string]string{"instrument": "eea"})
	if err != nil {
		t.Fatal(err)
	}
	if len(fake.inputs) != 1 {
		t.Fatalf("writes = %d, want 1", len(fake.inputs))
	}
	in := fake.inputs[0]
	if aws.StringValue(in.DatabaseName) != "ops" || aws.StringValue(in.TableName) != "measurements" {
		t.Errorf("destination = %s.%s", aws.StringValue(in.DatabaseName), aws.StringValue(in.TableName))
	}
	if len(in.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(in.Records))
	}
	rec := in.Records[0]
	if aws.StringValue(rec.MeasureName) != "files_processed" {
		t.Errorf("MeasureName = %s", aws.StringValue(rec.MeasureName))
	}
	if aws.StringValue(rec.MeasureValue) != "3" {
		t.Errorf("MeasureValue = %s", aws.StringValue(rec.MeasureValue))
	}
	dims := map[string]string{}
	for _, d := range rec.Dimensions {
		dims[aws.StringValue(d.Name)] = aws.StringValue(d.Value)
	}
	if dims["mission"] != "swxsoc" || dims["instrument"] != "eea" {
		t.Errorf("dimensions = %v", dims)
	}
}
