// ledger/schema.go
package ledger

const Schema = `
CREATE TABLE IF NOT EXISTS trading (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	date TEXT NOT NULL,
	time TEXT NOT NULL,
	instrument TEXT NOT NULL,
	side TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	price REAL NOT NULL,
	fee REAL NOT NULL,
	strategy TEXT NOT NULL,
	avg_price REAL NOT NULL,
	profit REAL NOT NULL,
	roi REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS overview (
	date TEXT PRIMARY KEY,
	open REAL,
	high REAL,
	low REAL,
	close REAL,
	volume INTEGER,
	turnover REAL,
	profit REAL,
	roi REAL,
	fee REAL
);

CREATE TABLE IF NOT EXISTS orders (
	id TEXT PRIMARY KEY,
	instrument TEXT NOT NULL,
	side TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	price REAL NOT NULL,
	status TEXT NOT NULL,
	submitted_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trading_date ON trading(date);
`
