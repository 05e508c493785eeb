package dynamodb

// Mode selects how the DynamoDB client is built.
type Mode string

const (
	ModeLocal Mode = "local" // static credentials against a local endpoint; tables are created on start
	ModeAWS   Mode = "aws"   // default AWS credential chain
)

type Config struct {
	Mode            Mode
	Endpoint        string // local mode only
	Region          string
	AttendanceTable string
}

const workDateIndex = "WorkDate-index"
