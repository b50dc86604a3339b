package sqlinline

const QInsertFeeRecord = `--sql f497fa9c-995a-411c-8bf6-e0002a772bf9
insert into fee_records(id, user_id, fee_type, amount_cents, currency, external_reference, created_at, updated_at)
values ($1::uuid, $2::uuid, $3::text, $4::bigint, $5::text, $6::text, now(), now())
on conflict (user_id, fee_type) do nothing;
`

const QSelectFeeByUserAndType = `--sql 2faaab12-dfdf-48b2-bfa8-ef86bfb73020
select id, user_id, fee_type, amount_cents, currency, paid_at, external_reference, created_at, updated_at
from fee_records
where user_id = $1::uuid and fee_type = $2::text;
`

const QSelectFeeByReference = `--sql 4285a368-672d-4251-aea3-d8b51d65b44a
select id, user_id, fee_type, amount_cents, currency, paid_at, external_reference, created_at, updated_at
from fee_records
where external_reference = $1::text;
`

const QMarkFeePaid = `--sql 8ca4a540-be3d-439c-b3fa-2d2fb5711927
update fee_records
set paid_at = coalesce(paid_at, $2::timestamptz),
    external_reference = coalesce(nullif(external_reference, ''), $3::text),
    updated_at = now()
where id = $1::uuid
returning id, user_id, fee_type, amount_cents, currency, paid_at, external_reference, created_at, updated_at;
`
