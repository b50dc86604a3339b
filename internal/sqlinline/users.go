package sqlinline

const QSelectUserByID = `--sql 740a4827-5571-4286-ae7a-bfbfe670d8a1
select id, email, name, role, locale, created_at, updated_at
from users
where id = $1::uuid;
`
