package tpcc

// Text columns are fixed width byte arrays. A value is zero padded and its
// logical length ends at the first zero byte, so a column may be filled to
// capacity with no terminator.

// DateTimeSize is the width of a YYYYMMDDHHMMSS timestamp.
const DateTimeSize = 14

const (
	MinIM               = 1
	MaxIM               = 10000
	MinItemPrice        = 1.00
	MaxItemPrice        = 100.00
	MinItemName         = 14
	MaxItemName         = 24
	MinItemData         = 26
	MaxItemData         = 50
	NumItems            = 100000
	OriginalString      = "ORIGINAL"
	InvalidItemStatus   = "Item number is not valid"
	MaxNewOrderStatus   = 25
	MinWarehouseTax     = 0
	MaxWarehouseTax     = 0.2000
	InitialWarehouseYTD = 300000.00
	MinWarehouseName    = 6
	MaxWarehouseName    = 10
	MaxWarehouseID      = 100
	MinStreet           = 10
	MaxStreet           = 20
	MinCity             = 10
	MaxCity             = 20
	State               = 2
	Zip                 = 9
)

const (
	MinDistrictTax         = 0
	MaxDistrictTax         = 0.2000
	InitialDistrictYTD     = 30000.00
	InitialNextOID         = 3001
	MinDistrictName        = 6
	MaxDistrictName        = 10
	DistrictsPerWarehouse  = 10
	MinStockQuantity       = 10
	MaxStockQuantity       = 100
	StockDist              = 24
	MinStockData           = 26
	MaxStockData           = 50
	StockPerWarehouse      = 100000
	InitialCreditLim       = 50000.00
	MinCustomerDiscount    = 0.0000
	MaxCustomerDiscount    = 0.5000
	InitialCustomerBalance = -10.00
	InitialYTDPayment      = 10.00
	InitialPaymentCnt      = 1
	InitialDeliveryCnt     = 0
	MinFirst               = 6
	MaxFirst               = 10
	MiddleName             = "OE"
	MaxLast                = 16
	Phone                  = 16
	Credit                 = 2
	MinCustomerData        = 300
	MaxCustomerData        = 500
	CustomersPerDistrict   = 3000
	GoodCredit             = "GC"
	BadCredit              = "BC"
)

const (
	MinCarrierID                = 1
	MaxCarrierID                = 10
	NullCarrierID               = 0
	NullCarrierLowerBound       = 2101
	MinOLCnt                    = 5
	MaxOLCnt                    = 15
	InitialAllLocal             = 1
	InitialOrdersPerDistrict    = 3000
	MaxOrderID                  = 10000000
	MinOrderLineIID             = 1
	MaxOrderLineIID             = 100000
	InitialOrderLineQuantity    = 5
	MinOrderLineAmount          = 0.01
	MaxOrderLineAmount          = 9999.99
	InitialNewOrdersPerDistrict = 900
	MinHistoryData              = 12
	MaxHistoryData              = 24
	InitialHistoryAmount        = 10.00
	MinStockLevelThreshold      = 10
	MaxStockLevelThreshold      = 20
	MinPaymentAmount            = 1.00
	MaxPaymentAmount            = 5000.00
	MaxOLQuantity               = 10
)

type Item struct {
	ID    int32
	ImID  int32
	Price float32
	Name  [MaxItemName]byte
	Data  [MaxItemData]byte
}

// Address is embedded in warehouse, district and customer rows.
type Address struct {
	Street1 [MaxStreet]byte
	Street2 [MaxStreet]byte
	City    [MaxCity]byte
	State   [State]byte
	Zip     [Zip]byte
}

type Warehouse struct {
	ID   int32
	Tax  float32
	YTD  float32
	Name [MaxWarehouseName]byte
	Address
}

type District struct {
	ID      int32
	WID     int32
	Tax     float32
	YTD     float32
	NextOID int32
	Name    [MaxDistrictName]byte
	Address
}

type Stock struct {
	IID       int32
	WID       int32
	Quantity  int32
	YTD       int32
	OrderCnt  int32
	RemoteCnt int32
	Dist      [DistrictsPerWarehouse][StockDist]byte
	Data      [MaxStockData]byte
}

type Customer struct {
	ID          int32
	DID         int32
	WID         int32
	CreditLim   float32
	Discount    float32
	Balance     float32
	YTDPayment  float32
	PaymentCnt  int32
	DeliveryCnt int32
	First       [MaxFirst]byte
	Middle      [len(MiddleName)]byte
	Last        [MaxLast]byte
	Address
	Phone  [Phone]byte
	Since  [DateTimeSize]byte
	Credit [Credit]byte
	Data   [MaxCustomerData]byte
}

type Order struct {
	ID        int32
	CID       int32
	DID       int32
	WID       int32
	CarrierID int32
	OLCnt     int32
	AllLocal  int32
	EntryD    [DateTimeSize]byte
}

type OrderLine struct {
	OID       int32
	DID       int32
	WID       int32
	Number    int32
	IID       int32
	SupplyWID int32
	Quantity  int32
	Amount    float32
	DeliveryD [DateTimeSize]byte
	DistInfo  [StockDist]byte
}

// NewOrder marks an order that has not been delivered yet.
type NewOrder struct {
	WID int32
	DID int32
	OID int32
}

type History struct {
	CID    int32
	CDID   int32
	CWID   int32
	DID    int32
	WID    int32
	Amount float32
	Date   [DateTimeSize]byte
	Data   [MaxHistoryData]byte
}
