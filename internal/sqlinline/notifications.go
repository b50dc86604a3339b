package sqlinline

const QInsertNotificationEvent = `--sql f5998252-ee35-4973-bc34-e4eb119afee7
insert into notification_events(id, kind, recipient_id, payload, created_at)
values ($1::uuid, $2::text, $3::uuid, coalesce($4::jsonb, '{}'::jsonb), now());
`

const QListUndispatchedEvents = `--sql 795a0a0e-523f-40ed-a69e-1eab2dbb4016
select id, kind, recipient_id, payload, created_at, dispatched_at
from notification_events
where dispatched_at is null
order by created_at asc
limit $1::int;
`

const QMarkEventDispatched = `--sql 052c6735-bbfe-4ccb-adf4-569be623b173
update notification_events
set dispatched_at = $2::timestamptz
where id = $1::uuid and dispatched_at is null;
`

const QListEventsByRecipient = `--sql 1d710529-77dc-4111-9d16-a4f3d5b5ac9e
select id, kind, recipient_id, payload, created_at, dispatched_at
from notification_events
where recipient_id = $1::uuid
order by created_at desc
limit $2::int;
`
