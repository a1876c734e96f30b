package mysql

const upsertRoomsPrefix = "INSERT INTO rooms\n  (id, room_type, price_per_night, capacity)\nVALUES "

const upsertRoomsOnDup = ` ON DUPLICATE KEY UPDATE
  room_type       = VALUES(room_type),
  price_per_night = VALUES(price_per_night),
  capacity        = VALUES(capacity),
  updated_at      = CURRENT_TIMESTAMP
`

const upsertCustomersPrefix = "INSERT INTO customers\n  (id, name, email, phone, address)\nVALUES "

const upsertCustomersOnDup = ` ON DUPLICATE KEY UPDATE
  name    = VALUES(name),
  email   = VALUES(email),
  phone   = VALUES(phone),
  address = VALUES(address)
`

const upsertReservationsPrefix = "INSERT INTO reservations\n  (id, customer_id, room_id, check_in, check_out, total_cost, status)\nVALUES "

const upsertReservationsOnDup = ` ON DUPLICATE KEY UPDATE
  customer_id = VALUES(customer_id),
  room_id     = VALUES(room_id),
  check_in    = VALUES(check_in),
  check_out   = VALUES(check_out),
  total_cost  = VALUES(total_cost),
  status      = VALUES(status)
`

const selectRoomsSQL = `
SELECT id, room_type, price_per_night, capacity
FROM rooms
ORDER BY id
`

const selectCustomersSQL = `
SELECT id, name, email, phone, address
FROM customers
ORDER BY id
`

const selectReservationsSQL = `
SELECT id, customer_id, room_id, check_in, check_out, total_cost, status
FROM reservations
ORDER BY id
`
