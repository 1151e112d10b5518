package postgres

// SQL queries for order storage. The column order here is the single source
// of truth: the upsert arguments, the scan helper and the migration schema
// all follow it.

const orderColumns = `
		order_id, order_item_id, customer_id, order_customer_id, product_id,
		item_subtotal, item_total, profit_per_item, item_profit_ratio,
		item_product_price, product_price, order_item_discount, item_discount_rate,
		item_quantity, days_for_shipping_real, days_for_shipment_scheduled,
		customer_segment, customer_name, customer_zipcode,
		order_country, order_region, order_state, order_city, order_status, market,
		product_name, product_category_id, order_item_cardprod_id,
		category_id, category_name, department_id, department_name,
		shipping_mode, delivery_status, payment_type, late_delivery,
		store_city, store_state, store_street, store_country, latitude, longitude,
		order_datetime, shipping_datetime`

const (
	// queryUpsertOrder performs the import's last-write-wins upsert keyed on
	// order_id: every column of the existing record is overwritten with the
	// incoming row's values. row_seq is assigned on first insert and never
	// touched on conflict, so the collection's natural row order is stable
	// across re-imports.
	queryUpsertOrder = `
		INSERT INTO orders (` + orderColumns + `
		)
		VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12, $13,
			$14, $15, $16,
			$17, $18, $19,
			$20, $21, $22, $23, $24, $25,
			$26, $27, $28,
			$29, $30, $31, $32,
			$33, $34, $35, $36,
			$37, $38, $39, $40, $41, $42,
			$43, $44
		)
		ON CONFLICT (order_id) DO UPDATE SET
			order_item_id = EXCLUDED.order_item_id,
			customer_id = EXCLUDED.customer_id,
			order_customer_id = EXCLUDED.order_customer_id,
			product_id = EXCLUDED.product_id,
			item_subtotal = EXCLUDED.item_subtotal,
			item_total = EXCLUDED.item_total,
			profit_per_item = EXCLUDED.profit_per_item,
			item_profit_ratio = EXCLUDED.item_profit_ratio,
			item_product_price = EXCLUDED.item_product_price,
			product_price = EXCLUDED.product_price,
			order_item_discount = EXCLUDED.order_item_discount,
			item_discount_rate = EXCLUDED.item_discount_rate,
			item_quantity = EXCLUDED.item_quantity,
			days_for_shipping_real = EXCLUDED.days_for_shipping_real,
			days_for_shipment_scheduled = EXCLUDED.days_for_shipment_scheduled,
			customer_segment = EXCLUDED.customer_segment,
			customer_name = EXCLUDED.customer_name,
			customer_zipcode = EXCLUDED.customer_zipcode,
			order_country = EXCLUDED.order_country,
			order_region = EXCLUDED.order_region,
			order_state = EXCLUDED.order_state,
			order_city = EXCLUDED.order_city,
			order_status = EXCLUDED.order_status,
			market = EXCLUDED.market,
			product_name = EXCLUDED.product_name,
			product_category_id = EXCLUDED.product_category_id,
			order_item_cardprod_id = EXCLUDED.order_item_cardprod_id,
			category_id = EXCLUDED.category_id,
			category_name = EXCLUDED.category_name,
			department_id = EXCLUDED.department_id,
			department_name = EXCLUDED.department_name,
			shipping_mode = EXCLUDED.shipping_mode,
			delivery_status = EXCLUDED.delivery_status,
			payment_type = EXCLUDED.payment_type,
			late_delivery = EXCLUDED.late_delivery,
			store_city = EXCLUDED.store_city,
			store_state = EXCLUDED.store_state,
			store_street = EXCLUDED.store_street,
			store_country = EXCLUDED.store_country,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			order_datetime = EXCLUDED.order_datetime,
			shipping_datetime = EXCLUDED.shipping_datetime
		RETURNING row_seq
	`

	// queryListOrders returns the whole collection in natural row order.
	// A single statement reads a consistent snapshot under read committed,
	// so a concurrent import can never expose a half-written record.
	queryListOrders = `
		SELECT ` + orderColumns + `, row_seq
		FROM orders
		ORDER BY row_seq ASC
	`

	queryCountOrders = `SELECT COUNT(*) FROM orders`
)
